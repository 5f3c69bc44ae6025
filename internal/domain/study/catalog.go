package study

import "gorm.io/datatypes"

type Topic struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Language   string `gorm:"type:varchar(64);not null;uniqueIndex:idx_topics_language_topic" json:"language"`
	Topic      string `gorm:"type:varchar(255);not null;uniqueIndex:idx_topics_language_topic" json:"topic"`
	TopicOrder int    `gorm:"not null;default:0;index" json:"topic_order"`
}

func (Topic) TableName() string { return "topics" }

type QuizQuestion struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TopicID     uint           `gorm:"not null;index" json:"topic_id"`
	Question    string         `gorm:"type:text;not null" json:"question"`
	Options     datatypes.JSON `json:"options"`
	Answer      string         `gorm:"type:text;not null" json:"answer"`
	Explanation string         `gorm:"type:text" json:"explanation"`

	// Topic is serialized as "topics", the shape the web client reads.
	Topic *Topic `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"topics,omitempty"`
}

func (QuizQuestion) TableName() string { return "quiz_questions" }

type CodeGame struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Language    string `gorm:"type:varchar(64);index" json:"language"`
	Topic       string `gorm:"type:varchar(255);index" json:"topic"`
	Difficulty  string `gorm:"type:varchar(32);index" json:"difficulty"`
	Type        string `gorm:"type:varchar(32)" json:"type"`
	Prompt      string `gorm:"type:text" json:"prompt"`
	CodeSnippet string `gorm:"type:text" json:"code_snippet"`
	Answer      string `gorm:"type:text" json:"answer"`
	Explanation string `gorm:"type:text" json:"explanation"`
}

func (CodeGame) TableName() string { return "code_games" }

// Models lists every table for auto-migration, parents first.
func Models() []any {
	return []any{&StudyPlan{}, &Topic{}, &QuizQuestion{}, &CodeGame{}}
}
