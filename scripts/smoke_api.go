package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decodeData(body []byte) map[string]interface{} {
	var wrapper map[string]interface{}
	json.Unmarshal(body, &wrapper)
	if data, ok := wrapper["data"].(map[string]interface{}); ok {
		return data
	}
	return nil
}

func main() {
	color.Cyan("Starting StudyTrack API Smoke Test\n")

	email := fmt.Sprintf("smoke+%d@example.com", os.Getpid())
	password := "smoketest123"

	// 1. Register
	color.Yellow("\n1. Register")
	resp, body, err := sendRequest("POST", "/auth/register", "", map[string]interface{}{
		"email":            email,
		"full_name":        "Smoke Tester",
		"password":         password,
		"confirm_password": password,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 2. Login
	color.Yellow("\n2. Login")
	resp, body, err = sendRequest("POST", "/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	login := decodeData(body)
	token, _ := login["access_token"].(string)
	if token == "" {
		color.Red("No access token in login response")
		prettyPrint(login)
		os.Exit(1)
	}

	// 3. Create Goal
	color.Yellow("\n3. Create Goal")
	resp, body, err = sendRequest("POST", "/goal/v1", token, map[string]interface{}{
		"title":    "Finish chapter 4",
		"progress": 25,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	goal := decodeData(body)
	goalID, _ := goal["id"].(string)

	// 4. Invalid progress must be rejected
	color.Yellow("\n4. Create Goal with progress 150 (expect 400)")
	resp, _, _ = sendRequest("POST", "/goal/v1", token, map[string]interface{}{
		"title":    "Bad goal",
		"progress": 150,
	})
	color.Green("Status: %s", resp.Status)

	// 5. Update
	color.Yellow("\n5. Update Goal Progress")
	resp, _, _ = sendRequest("PUT", "/goal/v1/"+goalID, token, map[string]interface{}{
		"progress": 60,
	})
	color.Green("Status: %s", resp.Status)

	// 6. List
	color.Yellow("\n6. List Goals")
	resp, body, _ = sendRequest("GET", "/goal/v1", token, nil)
	color.Green("Status: %s", resp.Status)
	var listResp map[string]interface{}
	json.Unmarshal(body, &listResp)
	prettyPrint(listResp)

	// 7. Chat
	color.Yellow("\n7. Send Chat Message")
	resp, body, _ = sendRequest("POST", "/chat/v1/message", token, map[string]interface{}{
		"text": "How do I update progress?",
	})
	color.Green("Status: %s", resp.Status)
	prettyPrint(decodeData(body))

	// 8. Delete
	color.Yellow("\n8. Delete Goal")
	resp, _, _ = sendRequest("DELETE", "/goal/v1/"+goalID, token, nil)
	color.Green("Status: %s", resp.Status)

	color.Cyan("\nSmoke test finished")
}
