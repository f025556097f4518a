package main

import (
	"log"
	"os"
	"time"

	"studytrack-be/internal/model"
	"studytrack-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Seed rules are inserted with ascending created_at so the responder's
// first-match order is exactly the order below.
var defaultRules = []struct {
	Question string
	Answer   string
}{
	{"what is studytrack", "StudyTrack helps you set study goals, track progress, and stay motivated."},
	{"how do i create a goal", "Tap the + button on the Goals screen, give your goal a title and a starting progress, then save."},
	{"how do i update progress", "Open a goal from the list and drag the progress slider, then tap Save."},
	{"how do i delete a goal", "Swipe left on a goal in the list and tap Delete. This cannot be undone."},
	{"progress", "Progress is a number from 0 to 100. 100 means the goal is complete!"},
	{"deadline", "Goals don't have deadlines yet, but you can put a target date in the title."},
	{"forgot my password", "Use the Forgot Password link on the login screen to reset it via email."},
	{"how do i log out", "Open Settings and tap Log Out at the bottom of the screen."},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding FAQ rules...")

	base := time.Now()
	seeded := 0
	for i, rule := range defaultRules {
		var count int64
		db.Model(&model.FaqRule{}).Where("question = ?", rule.Question).Count(&count)
		if count > 0 {
			color.Yellow("Skip (exists): %q", rule.Question)
			continue
		}

		row := model.FaqRule{
			Question:  rule.Question,
			Answer:    rule.Answer,
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := db.Create(&row).Error; err != nil {
			color.Red("Failed: %q: %v", rule.Question, err)
			continue
		}
		seeded++
		color.Green("Seeded: %q", rule.Question)
	}

	color.Cyan("Done. %d new rule(s) inserted.", seeded)
}
