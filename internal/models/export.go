package models

// RawExport выгрузка сборщика в исходном виде, до построения базовых коллекций
type RawExport struct {
	Metadata Metadata   `json:"metadata"`
	Issues   []RawIssue `json:"issues"`
}

// RawIssue задача в выгрузке сборщика
type RawIssue struct {
	Number           int            `json:"number"`
	Title            string         `json:"title"`
	CreatedAt        string         `json:"created_at"`
	ClosedAt         *string        `json:"closed_at"`
	Creator          string         `json:"creator"`
	Assignees        []string       `json:"assignees"`
	State            IssueState     `json:"state"`
	CommentsCount    int            `json:"comments_count"`
	CommentsByAuthor map[string]int `json:"comments_by_author"`
	URL              string         `json:"url"`
}
