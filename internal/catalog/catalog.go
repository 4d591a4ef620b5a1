package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Role is one of the five map positions a champion can credibly play.
type Role string

const (
	RoleTop Role = "TOP"
	RoleJG  Role = "JG"
	RoleMid Role = "MID"
	RoleBot Role = "BOT"
	RoleSup Role = "SUP"
)

// Roles lists every role in draft display order.
var Roles = []Role{RoleTop, RoleJG, RoleMid, RoleBot, RoleSup}

// Damage is the primary damage profile of a champion.
type Damage string

const (
	DamageAP Damage = "AP"
	DamageAD Damage = "AD"
)

// Tags holds the 0-2 scalar ratings used by the scoring formulas.
type Tags struct {
	EngageClarity       float64 `json:"engageClarity"`
	ObjectiveControl    float64 `json:"objectiveControl"`
	LaneStability       float64 `json:"laneStability"`
	Disengage           float64 `json:"disengage"`
	FlexValue           float64 `json:"flexValue"`
	ExecutionDifficulty float64 `json:"executionDifficulty"`
}

// Champion is an immutable catalog entry.
type Champion struct {
	ID    string `json:"id"`
	Roles []Role `json:"roles"`
	Dmg   Damage `json:"dmg"`
	Tags  Tags   `json:"tags"`
}

// Catalog is a read-only champion list with id lookup. The slice order is the
// canonical catalog order; scoring tie-breaks depend on it staying stable.
type Catalog struct {
	champs []Champion
	byID   map[string]Champion
}

func New(champs []Champion) *Catalog {
	c := &Catalog{
		champs: slices.Clone(champs),
		byID:   make(map[string]Champion, len(champs)),
	}
	for _, ch := range c.champs {
		c.byID[ch.ID] = ch
	}
	return c
}

// Load reads a champion list from JSON.
func Load(r io.Reader) (*Catalog, error) {
	var champs []Champion
	if err := json.NewDecoder(r).Decode(&champs); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(champs), nil
}

//go:embed champions.json
var defaultData embed.FS

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	data, err := defaultData.ReadFile("champions.json")
	if err != nil {
		panic(err) // embedded file, cannot fail
	}
	var champs []Champion
	if err := json.Unmarshal(data, &champs); err != nil {
		panic(err)
	}
	return New(champs)
}

// All returns the champions in catalog order. Callers must not mutate.
func (c *Catalog) All() []Champion { return c.champs }

func (c *Catalog) Len() int { return len(c.champs) }

func (c *Catalog) ByID(id string) (Champion, bool) {
	ch, ok := c.byID[id]
	return ch, ok
}

// IDs returns every champion id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.champs))
	for i, ch := range c.champs {
		ids[i] = ch.ID
	}
	return ids
}
