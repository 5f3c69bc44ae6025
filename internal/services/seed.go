package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	"github.com/yungbote/studyplan-backend/internal/data/repos/catalog"
	types "github.com/yungbote/studyplan-backend/internal/domain/study"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

//go:embed seed_schema.json
var seedSchemaJSON []byte

const seedSchemaURL = "schema://seed.json"

var (
	seedSchemaOnce sync.Once
	seedSchema     *jsonschema.Schema
	seedSchemaErr  error
)

type SeedTopic struct {
	Language   string `yaml:"language"`
	Topic      string `yaml:"topic"`
	TopicOrder int    `yaml:"topic_order"`
}

type SeedQuizQuestion struct {
	Language    string   `yaml:"language"`
	Topic       string   `yaml:"topic"`
	Question    string   `yaml:"question"`
	Options     []string `yaml:"options"`
	Answer      string   `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

type SeedCodeGame struct {
	Language    string `yaml:"language"`
	Topic       string `yaml:"topic"`
	Difficulty  string `yaml:"difficulty"`
	Type        string `yaml:"type"`
	Prompt      string `yaml:"prompt"`
	CodeSnippet string `yaml:"code_snippet"`
	Answer      string `yaml:"answer"`
	Explanation string `yaml:"explanation"`
}

type SeedDocument struct {
	Topics        []SeedTopic        `yaml:"topics"`
	QuizQuestions []SeedQuizQuestion `yaml:"quiz_questions"`
	CodeGames     []SeedCodeGame     `yaml:"code_games"`
}

type SeedResult struct {
	TopicsInserted int
	TopicsSkipped  int
	QuizQuestions  int
	CodeGames      int
}

// MissingTopicsError lists quiz questions whose (language, topic) pair has no
// topic row.
type MissingTopicsError struct {
	Pairs []catalog.TopicKey
}

func (e *MissingTopicsError) Error() string {
	parts := make([]string, 0, len(e.Pairs))
	for _, p := range e.Pairs {
		parts = append(parts, p.Language+"/"+p.Topic)
	}
	return "quiz questions reference unknown topics: " + strings.Join(parts, ", ")
}

type SeedService interface {
	// Seed validates a YAML seed document and loads it in one transaction.
	Seed(ctx context.Context, raw []byte) (*SeedResult, error)
}

type seedService struct {
	db      *gorm.DB
	log     *logger.Logger
	topics  repos.TopicRepo
	quizzes repos.QuizQuestionRepo
	games   repos.CodeGameRepo
}

func NewSeedService(db *gorm.DB, log *logger.Logger, topics repos.TopicRepo, quizzes repos.QuizQuestionRepo, games repos.CodeGameRepo) SeedService {
	return &seedService{
		db:      db,
		log:     log.With("service", "SeedService"),
		topics:  topics,
		quizzes: quizzes,
		games:   games,
	}
}

func (s *seedService) Seed(ctx context.Context, raw []byte) (*SeedResult, error) {
	doc, err := ParseSeedDocument(raw)
	if err != nil {
		return nil, err
	}

	res := &SeedResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		topicRows := make([]*types.Topic, 0, len(doc.Topics))
		for _, t := range doc.Topics {
			topicRows = append(topicRows, &types.Topic{
				Language:   strings.TrimSpace(t.Language),
				Topic:      strings.TrimSpace(t.Topic),
				TopicOrder: t.TopicOrder,
			})
		}
		inserted, err := s.topics.CreateIgnoreDuplicates(ctx, tx, topicRows)
		if err != nil {
			return fmt.Errorf("insert topics: %w", err)
		}
		res.TopicsInserted = inserted
		res.TopicsSkipped = len(topicRows) - inserted

		if len(doc.QuizQuestions) > 0 {
			keys := make([]catalog.TopicKey, 0, len(doc.QuizQuestions))
			for _, q := range doc.QuizQuestions {
				keys = append(keys, catalog.TopicKey{Language: strings.TrimSpace(q.Language), Topic: strings.TrimSpace(q.Topic)})
			}
			found, err := s.topics.GetByKeys(ctx, tx, keys)
			if err != nil {
				return fmt.Errorf("resolve topics: %w", err)
			}
			if missing := missingKeys(keys, found); len(missing) > 0 {
				return &MissingTopicsError{Pairs: missing}
			}

			quizRows := make([]*types.QuizQuestion, 0, len(doc.QuizQuestions))
			for i, q := range doc.QuizQuestions {
				opts, err := json.Marshal(q.Options)
				if err != nil {
					return fmt.Errorf("quiz question %d options: %w", i, err)
				}
				quizRows = append(quizRows, &types.QuizQuestion{
					TopicID:     found[keys[i]].ID,
					Question:    q.Question,
					Options:     datatypes.JSON(opts),
					Answer:      q.Answer,
					Explanation: q.Explanation,
				})
			}
			if _, err := s.quizzes.Create(ctx, tx, quizRows); err != nil {
				return fmt.Errorf("insert quiz questions: %w", err)
			}
			res.QuizQuestions = len(quizRows)
		}

		gameRows := make([]*types.CodeGame, 0, len(doc.CodeGames))
		for _, g := range doc.CodeGames {
			gameRows = append(gameRows, &types.CodeGame{
				Language:    strings.TrimSpace(g.Language),
				Topic:       strings.TrimSpace(g.Topic),
				Difficulty:  strings.TrimSpace(g.Difficulty),
				Type:        g.Type,
				Prompt:      g.Prompt,
				CodeSnippet: g.CodeSnippet,
				Answer:      g.Answer,
				Explanation: g.Explanation,
			})
		}
		if _, err := s.games.Create(ctx, tx, gameRows); err != nil {
			return fmt.Errorf("insert code games: %w", err)
		}
		res.CodeGames = len(gameRows)
		return nil
	})
	if err != nil {
		s.log.Error("Seed failed", "error", err)
		return nil, err
	}
	s.log.Info("Seed loaded",
		"topics_inserted", res.TopicsInserted,
		"topics_skipped", res.TopicsSkipped,
		"quiz_questions", res.QuizQuestions,
		"code_games", res.CodeGames,
	)
	return res, nil
}

// ParseSeedDocument decodes YAML (or JSON) and validates it against the seed schema.
func ParseSeedDocument(raw []byte) (*SeedDocument, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if generic == nil {
		generic = map[string]any{}
	}

	// Round-trip through JSON so the validator sees plain JSON values.
	b, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("seed is not JSON-compatible: %w", err)
	}
	var inst any
	if err := json.Unmarshal(b, &inst); err != nil {
		return nil, fmt.Errorf("seed is not JSON-compatible: %w", err)
	}

	sch, err := compiledSeedSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("seed validation failed: %w", err)
	}

	var doc SeedDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &doc, nil
}

func compiledSeedSchema() (*jsonschema.Schema, error) {
	seedSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(seedSchemaJSON, &def); err != nil {
			seedSchemaErr = fmt.Errorf("parse seed schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(seedSchemaURL, def); err != nil {
			seedSchemaErr = fmt.Errorf("add seed schema: %w", err)
			return
		}
		seedSchema, seedSchemaErr = c.Compile(seedSchemaURL)
	})
	return seedSchema, seedSchemaErr
}

func missingKeys(keys []catalog.TopicKey, found map[catalog.TopicKey]*types.Topic) []catalog.TopicKey {
	seen := map[catalog.TopicKey]bool{}
	var out []catalog.TopicKey
	for _, k := range keys {
		if found[k] != nil || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Language != out[j].Language {
			return out[i].Language < out[j].Language
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}
