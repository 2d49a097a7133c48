package questionbank

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/utils"
)

const statusActive = "active"

var ErrEmptyBank = errors.New("question bank has no matching questions")

// BankQuestion is a stored question. An empty Roles list matches every role.
type BankQuestion struct {
	Text       string   `bson:"text" yaml:"text"`
	Area       string   `bson:"area" yaml:"area"`
	Difficulty string   `bson:"difficulty" yaml:"difficulty"`
	Roles      []string `bson:"roles,omitempty" yaml:"roles"`
	Status     string   `bson:"status" yaml:"status"`
}

// FollowUpWriter writes a follow-up for a previous exchange
type FollowUpWriter interface {
	FollowUp(ctx context.Context, prev interview.Exchange, role string) (string, error)
}

// Bank is an interview.QuestionSource backed by a MongoDB collection. Follow-ups
// are delegated when a writer is configured and scripted otherwise.
type Bank struct {
	col       *mongo.Collection
	followUps FollowUpWriter
	logger    *zap.Logger
}

var _ interview.QuestionSource = (*Bank)(nil)

func NewBank(col *mongo.Collection, followUps FollowUpWriter, logger *zap.Logger) *Bank {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bank{col: col, followUps: followUps, logger: logger}
}

// GeneratePool samples req.Count active questions for the candidate's role
func (b *Bank) GeneratePool(ctx context.Context, req interview.PoolRequest) ([]interview.Question, error) {
	cur, err := b.col.Aggregate(ctx, samplePipeline(req.Candidate.Role, req.Count))
	if err != nil {
		return nil, fmt.Errorf("sample question bank: %w", err)
	}
	defer cur.Close(ctx)

	var stored []BankQuestion
	if err := cur.All(ctx, &stored); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	pool := toQuestions(stored)
	if len(pool) == 0 {
		return nil, ErrEmptyBank
	}
	b.logger.Debug("Sampled question bank", zap.Int("requested", req.Count), zap.Int("returned", len(pool)))
	return pool, nil
}

func (b *Bank) FollowUp(ctx context.Context, prev interview.Exchange, role string) (string, error) {
	if b.followUps != nil {
		return b.followUps.FollowUp(ctx, prev, role)
	}
	return scriptedFollowUp(prev), nil
}

// Seed inserts questions, marking them active unless a status is given
func (b *Bank) Seed(ctx context.Context, questions []BankQuestion) (int, error) {
	docs := make([]interface{}, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		if q.Status == "" {
			q.Status = statusActive
		}
		q.Difficulty = utils.NormalizeDifficulty(q.Difficulty)
		roles := make([]string, 0, len(q.Roles))
		for _, r := range q.Roles {
			roles = append(roles, utils.NormalizeRole(r))
		}
		q.Roles = roles
		docs = append(docs, q)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	res, err := b.col.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("seed question bank: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func samplePipeline(role string, count int) mongo.Pipeline {
	if count < 1 {
		count = 1
	}
	roleMatch := bson.A{
		bson.D{{Key: "roles", Value: bson.D{{Key: "$exists", Value: false}}}},
		bson.D{{Key: "roles", Value: bson.D{{Key: "$size", Value: 0}}}},
	}
	if r := utils.NormalizeRole(role); r != "" {
		roleMatch = append(roleMatch, bson.D{{Key: "roles", Value: r}})
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "status", Value: statusActive},
			{Key: "$or", Value: roleMatch},
		}}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: count}}}},
	}
}

func toQuestions(stored []BankQuestion) []interview.Question {
	out := make([]interview.Question, 0, len(stored))
	for _, q := range stored {
		text := strings.TrimSpace(q.Text)
		tier, ok := interview.ParseTier(q.Difficulty)
		if text == "" || !ok {
			continue
		}
		area := strings.TrimSpace(q.Area)
		if area == "" {
			area = "General"
		}
		out = append(out, interview.Question{Text: text, Area: area, Tier: tier})
	}
	return out
}

var scriptedProbes = map[string]string{
	"Technical":  "What trade-offs did you consider in that approach?",
	"Behavioral": "What was the outcome, and what would you do differently next time?",
	"Resume":     "What was your specific contribution there?",
}

func scriptedFollowUp(prev interview.Exchange) string {
	if probe, ok := scriptedProbes[prev.Area]; ok {
		return probe
	}
	return interview.FallbackFollowUp
}
