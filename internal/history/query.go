package history

import "strings"

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Query filters the history. Empty fields are ignored.
type Query struct {
	Text     string
	Village  string
	Crop     string
	Feature  string
	Language string
	From     int
	Size     int
}

func (q Query) normalized() Query {
	q.Text = strings.TrimSpace(q.Text)
	q.Village = strings.TrimSpace(q.Village)
	q.Crop = strings.TrimSpace(q.Crop)
	q.Feature = strings.TrimSpace(q.Feature)
	q.Language = strings.TrimSpace(q.Language)
	if q.From < 0 {
		q.From = 0
	}
	if q.Size < 1 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	return q
}

// BuildSearchBody returns the bool query for q, newest first when there is
// no text to score against.
func BuildSearchBody(q Query) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if q.Text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Text,
				"fields": []string{"question^2", "answer"},
				"type":   "best_fields",
			},
		})
	}

	terms := []struct{ field, value string }{
		{"village", strings.ToLower(q.Village)},
		{"crop", strings.ToLower(q.Crop)},
		{"feature", q.Feature},
		{"language", q.Language},
	}
	for _, t := range terms {
		if t.value == "" {
			continue
		}
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{t.field: t.value},
		})
	}

	if len(must) == 0 {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}
	if q.Text == "" {
		body["sort"] = []interface{}{
			map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}},
		}
	}
	return body
}
