// Package gameids maps bracket match ids to upstream game ids.
package gameids

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lookup resolves a bracket match id to the upstream game id.
type Lookup interface {
	GameID(matchID string) (string, bool)
}

// Mapping is an in-memory match-id to game-id table.
type Mapping map[string]string

// GameID resolves a match id, reporting whether a mapping exists.
func (m Mapping) GameID(matchID string) (string, bool) {
	id, ok := m[matchID]
	return id, ok
}

// Len reports how many matches have mappings.
func (m Mapping) Len() int { return len(m) }

// Builtin returns the bundled first-round mapping for the 2025 bracket.
// The returned copy is safe to extend.
func Builtin() Mapping {
	out := make(Mapping, len(builtinMapping))
	for k, v := range builtinMapping {
		out[k] = v
	}
	return out
}

// LoadFile reads a mapping from a YAML file of matchID: gameID pairs and
// overlays it on the builtin table, so a partial file only overrides the
// entries it names.
func LoadFile(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game id mapping: %w", err)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse game id mapping: %w", err)
	}
	out := Builtin()
	for k, v := range overrides {
		out[k] = v
	}
	return out, nil
}

var builtinMapping = map[string]string{
	// First round, Thursday slate.
	"match-1-1":  "95285257-0761-4571-8dcd-040fbf230b91", // Creighton vs Louisville
	"match-1-2":  "36813a2c-031e-4528-bdf6-2b5e312b46c1", // High Point vs Purdue
	"match-1-3":  "a4cd6141-222b-4cd0-b32f-cbe15f5fbb9c", // Montana vs Wisconsin
	"match-1-4":  "94f6607f-f2db-492b-acb9-07146f8781f2", // SIU Edwardsville vs Houston
	"match-1-5":  "b3098a73-f322-4987-bed2-a08de6030088", // Alabama State vs Auburn
	"match-1-6":  "813259f9-d01a-42bd-b957-bf8ef2c377e8", // McNeese vs Clemson
	"match-1-7":  "11773774-6849-4b68-8aac-e04695eef2ce", // VCU vs BYU
	"match-1-8":  "dac703ed-a894-4604-bb3d-d2b40a552240", // Georgia vs Gonzaga
	"match-1-9":  "12b2259d-4ac9-44c1-b01d-ddaedf436936", // Wofford vs Tennessee
	"match-1-10": "c089908c-aa41-4f47-a6e4-dfb174556ddc", // Arkansas vs Kansas
	"match-1-11": "c066781a-6092-4b96-844b-a67da2674f5b", // Yale vs Texas A&M
	"match-1-12": "2171663b-5340-4da8-9b73-fc23bd664cc2", // Drake vs Missouri
	"match-1-13": "dde15af8-3a88-43ff-b00d-3f30359a5c36", // Utah State vs UCLA
	"match-1-14": "15c8d98b-f66d-4d51-a784-dfc9bdeac4c4", // Omaha vs St. John's
	"match-1-15": "2e73d50b-38d3-4fcd-b907-a695699259bd", // UC San Diego vs Michigan
	"match-1-16": "b8e00402-17e0-4720-bec3-307e49249089", // UNC Wilmington vs Texas Tech
	// First round, Friday slate.
	"match-1-17": "eeae8b31-8665-4b57-9c8d-028b09374e7e", // Baylor vs Mississippi State
	"match-1-18": "733b1fba-e396-4e14-910a-1e201ff95a48", // Robert Morris vs Alabama
	"match-1-19": "e8bf579b-62f5-4fc8-9b27-5ef0ef4a8e4f", // Lipscomb vs Iowa State
	"match-1-20": "e858f388-bb1c-4f58-8fb3-8faf93f61a35", // Colorado State vs Memphis
	"match-1-21": "3a98d5a7-4b11-4342-b12a-9b623fab534e", // Mount St. Mary's vs Duke
	"match-1-22": "8ecec46a-9c15-4bf6-9596-dc4002ad46ba", // Vanderbilt vs Saint Mary's
	"match-1-23": "4793460a-c60c-4d89-811d-e3759c049156", // North Carolina vs Ole Miss
	"match-1-24": "2c7ff907-8502-48c3-8e10-7be83df6f7c9", // Grand Canyon vs Maryland
	"match-1-25": "df32ec4b-7dd0-4f4b-85cf-3d2d31a87a92", // Norfolk State vs Florida
	"match-1-26": "5d02bb8c-61ac-41bf-b286-e4846e09deea", // Troy vs Kentucky
	"match-1-27": "c6f49159-89f8-4094-b153-e0cce89ca31e", // New Mexico vs Marquette
	"match-1-28": "252055f7-a334-4310-aa6c-d05de0453a96", // Akron vs Arizona
	"match-1-29": "a6672cc7-8ed6-4785-a792-eafe31ca6b66", // Oklahoma vs UConn
	"match-1-30": "7ed6589d-3acd-453b-be65-a937f02849be", // Xavier vs Illinois
	"match-1-31": "fb03dac5-6aad-4377-a717-1afd67381710", // Bryant vs Michigan State
	"match-1-32": "e948dc39-61cb-4476-8e9c-b541cf02b94c", // Liberty vs Oregon
}
