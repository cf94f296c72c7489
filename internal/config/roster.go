package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Roster is the initial data loaded by the seed command.
type Roster struct {
	People  []RosterPerson `yaml:"people"`
	Clients []RosterClient `yaml:"clients"`
	Tasks   []RosterTask   `yaml:"tasks"`
}

type RosterPerson struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	ClientIDs []string `yaml:"client_ids"`
}

type RosterClient struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// RosterTask is a seed task. Tasks without PersonID are spread over the
// people in file order.
type RosterTask struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description"`
	Duration    float64  `yaml:"duration"`
	IsCompleted bool     `yaml:"is_completed"`
	ClientID    string   `yaml:"client_id"`
	PersonID    string   `yaml:"person_id"`
	Tags        []string `yaml:"tags"`
}

type RosterReader struct {
	path string
}

func NewRosterReader(path string) RosterReader {
	return RosterReader{path: path}
}

func (r RosterReader) Read() (*Roster, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}

	return ParseRoster(data)
}

func ParseRoster(data []byte) (*Roster, error) {
	roster := new(Roster)
	if err := yaml.Unmarshal(data, roster); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	if len(roster.People) == 0 {
		return nil, fmt.Errorf("roster has no people")
	}

	seen := make(map[string]struct{}, len(roster.People))
	for _, p := range roster.People {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("roster person requires id and name")
		}
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("duplicate person id in roster: %s", p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	for _, t := range roster.Tasks {
		if t.PersonID == "" {
			continue
		}
		if _, ok := seen[t.PersonID]; !ok {
			return nil, fmt.Errorf("roster task %q references unknown person %s", t.Description, t.PersonID)
		}
	}

	return roster, nil
}

// ClientName returns the name of the client with the given id, or "".
func (r *Roster) ClientName(clientID string) string {
	for _, c := range r.Clients {
		if c.ID == clientID {
			return c.Name
		}
	}
	return ""
}
