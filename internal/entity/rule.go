package entity

type Rule struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Response string   `json:"response" yaml:"response"`
	Link     string   `json:"link,omitempty" yaml:"link,omitempty"`
}

// Text is the response followed by the optional link on its own line.
func (r Rule) Text() string {
	if r.Link == "" {
		return r.Response
	}
	if r.Response == "" {
		return r.Link
	}
	return r.Response + "\n" + r.Link
}
