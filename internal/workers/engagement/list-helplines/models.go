// internal/workers/engagement/list-helplines/models.go
package listhelplines

type Input struct {
	Query string `json:"query,omitempty"`
}

type Entry struct {
	Name          string `json:"name"`
	Number        string `json:"number"`
	NumberDisplay string `json:"numberDisplay"`
	TelURI        string `json:"telUri"`
}

type Output struct {
	Helplines []Entry `json:"helplines"`
}
