package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mkelsey/devportal/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case model.Identity:
		o.printIdentity(v)
	case *model.Identity:
		o.printIdentity(*v)
	case SessionStatus:
		o.printStatus(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// SessionStatus summarizes the resolved session for the status command
type SessionStatus struct {
	State         string     `json:"state"`
	Authenticated bool       `json:"authenticated"`
	Source        string     `json:"source,omitempty"`
	Username      string     `json:"username,omitempty"`
	Role          string     `json:"role,omitempty"`
	TokenExpires  *time.Time `json:"token_expires,omitempty"`
}

func (o *Output) printIdentity(id model.Identity) {
	fmt.Printf("User: %s (%s)\n", id.Username, id.ID)
	fmt.Printf("Email: %s\n", id.Email)
	fmt.Printf("Role: %s\n", id.Role)

	if len(id.Favorites) == 0 {
		return
	}

	fmt.Println("Favorites:")
	categories := make([]string, 0, len(id.Favorites))
	for category := range id.Favorites {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)
	for _, category := range categories {
		items := id.Favorites[model.FavoriteCategory(category)]
		sorted := append([]string(nil), items...)
		sort.Strings(sorted)
		fmt.Printf("  %s: %s\n", category, strings.Join(sorted, ", "))
	}
}

func (o *Output) printStatus(s SessionStatus) {
	fmt.Printf("State: %s\n", s.State)
	if !s.Authenticated {
		return
	}

	fmt.Printf("User: %s\n", s.Username)
	fmt.Printf("Role: %s\n", s.Role)
	fmt.Printf("Source: %s\n", s.Source)
	if s.TokenExpires != nil {
		fmt.Printf("Token Expires: %s\n", s.TokenExpires.Format(time.RFC3339))
	} else {
		fmt.Println("Token Expires: never")
	}
}
