package dto

type SendChatMessageRequest struct {
	SessionId string `json:"session_id"`
	Text      string `json:"text" validate:"required"`
}

type ChatMessageResponse struct {
	Text   string `json:"text"`
	Sender string `json:"sender"` // "user" | "assistant"
}

type SendChatMessageResponse struct {
	SessionId string              `json:"session_id"`
	Reply     ChatMessageResponse `json:"reply"`
}

type ChatHistoryResponse struct {
	SessionId string                `json:"session_id"`
	Messages  []ChatMessageResponse `json:"messages"`
}
