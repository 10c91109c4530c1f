package validate

import "strings"

// PostInput checks the three post fields and returns a field -> message map.
// An empty map means the input is valid. The map is what the API returns to
// the client, so messages are user-facing.
func PostInput(title, description, body string) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(title) == "" {
		errs["title"] = "Title must not be empty"
	}
	if strings.TrimSpace(description) == "" {
		errs["description"] = "Description must not be empty"
	}
	if strings.TrimSpace(body) == "" {
		errs["body"] = "Body must not be empty"
	}
	return errs
}
