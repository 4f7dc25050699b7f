package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
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
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Arena:
		o.printArena(v)
	case []Arena:
		o.printArenas(v)
	case Match:
		o.printMatch(v)
	case []Match:
		o.printMatches(v)
	case Device:
		o.printDevice(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EmailAddress string `json:"email_address,omitempty"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Arena response type
type Arena struct {
	ID             string  `json:"id"`
	LocationName   string  `json:"location_name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	StreetAddress1 string  `json:"street_address_1,omitempty"`
	StreetAddress2 string  `json:"street_address_2,omitempty"`
	City           string  `json:"city,omitempty"`
	State          string  `json:"state,omitempty"`
	ZipCode        string  `json:"zip_code,omitempty"`
}

// Match response type
type Match struct {
	ID               string     `json:"id"`
	State            string     `json:"state"`
	ArenaID          string     `json:"arena_id"`
	SeekerID         string     `json:"seeker_id"`
	OpponentID       string     `json:"opponent_id"`
	ConfirmationCode string     `json:"confirmation_code,omitempty"`
	MatchedAt        time.Time  `json:"matched_at"`
	PendingAt        *time.Time `json:"pending_at,omitempty"`
	FoundAt          *time.Time `json:"found_at,omitempty"`
	IgnoredAt        *time.Time `json:"ignored_at,omitempty"`
}

// Device response type
type Device struct {
	ID           string    `json:"id"`
	Token        string    `json:"token"`
	RegisteredAt time.Time `json:"registered_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
	if p.EmailAddress != "" {
		fmt.Printf("Email: %s\n", p.EmailAddress)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printArena(a Arena) {
	fmt.Printf("Arena: %s (%s)\n", a.LocationName, a.ID)
	fmt.Printf("Location: %.4f, %.4f\n", a.Latitude, a.Longitude)
	if a.StreetAddress1 != "" {
		fmt.Printf("Address: %s", a.StreetAddress1)
		if a.StreetAddress2 != "" {
			fmt.Printf(", %s", a.StreetAddress2)
		}
		fmt.Println()
	}
	if a.City != "" {
		fmt.Printf("City: %s, %s %s\n", a.City, a.State, a.ZipCode)
	}
}

func (o *Output) printArenas(arenas []Arena) {
	if len(arenas) == 0 {
		fmt.Println("No arenas nearby")
		return
	}
	fmt.Printf("Arenas (%d):\n", len(arenas))
	for _, a := range arenas {
		fmt.Printf("  - %s (%s) at %.4f, %.4f\n", a.LocationName, a.ID, a.Latitude, a.Longitude)
	}
}

func (o *Output) printMatch(m Match) {
	fmt.Printf("Match: %s\n", m.ID)
	fmt.Printf("State: %s\n", m.State)
	fmt.Printf("Arena: %s\n", m.ArenaID)
	fmt.Printf("Seeker: %s\n", m.SeekerID)
	fmt.Printf("Opponent: %s\n", m.OpponentID)
	if m.ConfirmationCode != "" {
		fmt.Printf("Confirmation Code: %s\n", m.ConfirmationCode)
	}
	fmt.Printf("Matched At: %s\n", m.MatchedAt.Format(time.RFC3339))
	if m.FoundAt != nil {
		fmt.Printf("Found At: %s\n", m.FoundAt.Format(time.RFC3339))
	}
	if m.IgnoredAt != nil {
		fmt.Printf("Ignored At: %s\n", m.IgnoredAt.Format(time.RFC3339))
	}
}

func (o *Output) printMatches(matches []Match) {
	if len(matches) == 0 {
		fmt.Println("No matches")
		return
	}
	fmt.Printf("Matches (%d):\n", len(matches))
	for _, m := range matches {
		fmt.Printf("  - %s [%s] vs %s in %s\n", m.ID, m.State, m.OpponentID, m.ArenaID)
	}
}

func (o *Output) printDevice(d Device) {
	fmt.Printf("Device: %s\n", d.ID)
	fmt.Printf("Token: %s\n", d.Token)
	fmt.Printf("Registered At: %s\n", d.RegisteredAt.Format(time.RFC3339))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
