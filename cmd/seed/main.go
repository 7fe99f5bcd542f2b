package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"riskpulse/internal/model"
	"riskpulse/internal/repository"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDB := os.Getenv("MONGO_DATABASE")
	if mongoDB == "" {
		mongoDB = "riskpulse"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(mongoDB)
	formRepo := repository.NewFormRepo(db)
	responseRepo := repository.NewResponseRepo(db)

	form := &model.Form{
		OwnerID: "admin_seed",
		Title:   "Investor Risk Attitude Survey",
		Description: "Rate a set of traders with different volatility profiles " +
			"and tell us a bit about your investment habits.",
		Status: model.FormPublished,
		Questions: []model.Question{
			{
				ID:    "q_intro",
				Type:  model.QuestionInstruction,
				Title: "You will see three trader profiles. Each shows capital traded and twelve monthly returns. Rate each trader from 1 (would never invest) to 10 (would definitely invest).",
				Order: 1,
			},
			{
				ID:       "q_trader_steady",
				Type:     model.QuestionTraderRating,
				Title:    "How would you rate this trader?",
				Order:    2,
				Required: true,
				Instrument: &model.Instrument{
					Name:           "Steady Eddie",
					Capital:        250000,
					MonthlyReturns: []float64{1.1, 0.9, 1.0, 1.2, 0.8, 1.0, 1.1, 0.9, 1.0, 1.0, 1.1, 0.9},
				},
			},
			{
				ID:       "q_trader_swing",
				Type:     model.QuestionTraderRating,
				Title:    "How would you rate this trader?",
				Order:    3,
				Required: true,
				Instrument: &model.Instrument{
					Name:           "Swing Trader",
					Capital:        120000,
					MonthlyReturns: []float64{4.0, -2.5, 3.5, -1.0, 5.0, -3.0, 2.0, 4.5, -2.0, 3.0, -1.5, 4.0},
				},
			},
			{
				ID:       "q_trader_wild",
				Type:     model.QuestionTraderRating,
				Title:    "How would you rate this trader?",
				Order:    4,
				Required: true,
				Instrument: &model.Instrument{
					Name:           "Wildcat",
					Capital:        40000,
					MonthlyReturns: []float64{15.0, -12.0, 20.0, -18.0, 25.0, -10.0, 8.0, -20.0, 30.0, -15.0, 12.0, -8.0},
				},
			},
			{
				ID:       "q_horizon",
				Type:     model.QuestionSingleChoice,
				Title:    "What is your investment horizon?",
				Order:    5,
				Required: true,
				Options: []model.Option{
					{ID: "opt_short", Label: "Under 1 year"},
					{ID: "opt_mid", Label: "1 to 5 years"},
					{ID: "opt_long", Label: "Over 5 years"},
				},
			},
			{
				ID:       "q_comfort",
				Type:     model.QuestionLikert,
				Title:    "I am comfortable with large swings in my portfolio value.",
				Order:    6,
				ScaleMin: 1,
				ScaleMax: 5,
			},
			{
				ID:    "q_notes",
				Type:  model.QuestionLongText,
				Title: "Anything else about how you think about risk?",
				Order: 7,
			},
		},
	}

	formID, err := formRepo.Create(ctx, form)
	if err != nil {
		log.Fatalf("Failed to insert form: %v", err)
	}

	// A cautious respondent, a neutral one, and a risk seeker
	seedResponses := []struct {
		respondent string
		ratings    map[string]string // questionID -> rating
		horizon    string
		comfort    string
		notes      string
	}{
		{
			respondent: "resp_seed_cautious",
			ratings:    map[string]string{"q_trader_steady": "9", "q_trader_swing": "5", "q_trader_wild": "1"},
			horizon:    "opt_long",
			comfort:    "1",
			notes:      "I mostly want to preserve capital.",
		},
		{
			respondent: "resp_seed_neutral",
			ratings:    map[string]string{"q_trader_steady": "6", "q_trader_swing": "6", "q_trader_wild": "6"},
			horizon:    "opt_mid",
			comfort:    "3",
			notes:      "",
		},
		{
			respondent: "resp_seed_bold",
			ratings:    map[string]string{"q_trader_steady": "2", "q_trader_swing": "6", "q_trader_wild": "10"},
			horizon:    "opt_short",
			comfort:    "5",
			notes:      "No risk, no reward.",
		},
	}

	now := time.Now()
	for _, sr := range seedResponses {
		submittedAt := now
		resp := &model.Response{
			FormID:       formID,
			RespondentID: sr.respondent,
			Status:       model.ResponseSubmitted,
			StartedAt:    now.Add(-10 * time.Minute),
			SubmittedAt:  &submittedAt,
		}
		for qid, rating := range sr.ratings {
			resp.SetAnswer(model.Answer{
				QuestionID: qid,
				Data:       model.AnswerData{Number: rating},
				AnsweredAt: now,
			})
		}
		resp.SetAnswer(model.Answer{
			QuestionID: "q_horizon",
			Data:       model.AnswerData{SelectedOption: sr.horizon},
			AnsweredAt: now,
		})
		resp.SetAnswer(model.Answer{
			QuestionID: "q_comfort",
			Data:       model.AnswerData{Number: sr.comfort},
			AnsweredAt: now,
		})
		if sr.notes != "" {
			resp.SetAnswer(model.Answer{
				QuestionID: "q_notes",
				Data:       model.AnswerData{Text: sr.notes},
				AnsweredAt: now,
			})
		}

		if _, err := responseRepo.Create(ctx, resp); err != nil {
			log.Fatalf("Failed to insert response for %s: %v", sr.respondent, err)
		}
	}

	fmt.Printf("Seeded form %s with %d responses\n", formID, len(seedResponses))
}
