package scoring

import "github.com/LogiStic1207/lol-draft-assistant/internal/catalog"

// Radar is the 6-axis composition profile, each axis normalized to [0, 1].
type Radar struct {
	Engage     float64 `json:"engage"`
	CC         float64 `json:"cc"`
	Frontline  float64 `json:"frontline"`
	Scale      float64 `json:"scale"`
	DmgBalance float64 `json:"dmg_balance"`
	Objective  float64 `json:"objective"`
}

// CompRadar sums tag values over the picked champions and normalizes by
// 2×pickCount. DmgBalance is min/max of the AP/AD counts, 0.5 before two
// picks exist.
func (e *Engine) CompRadar(pickIDs []string) Radar {
	var engage, cc, frontline, scale, objective float64
	ap, ad := 0, 0
	for _, cid := range pickIDs {
		c, ok := e.cat.ByID(cid)
		if !ok {
			continue
		}
		engage += c.Tags.EngageClarity
		frontline += c.Tags.LaneStability
		objective += c.Tags.ObjectiveControl
		cc += c.Tags.Disengage
		scale += c.Tags.LaneStability
		switch c.Dmg {
		case catalog.DamageAP:
			ap++
		case catalog.DamageAD:
			ad++
		}
	}
	total := float64(len(pickIDs))
	if total == 0 {
		total = 1
	}
	r := Radar{
		Engage:    clamp(engage/(total*2), 0, 1),
		CC:        clamp(cc/(total*2), 0, 1),
		Frontline: clamp(frontline/(total*2), 0, 1),
		Scale:     clamp(scale/(total*2), 0, 1),
		Objective: clamp(objective/(total*2), 0, 1),
	}
	maxDmg := max(ap, ad, 1)
	minDmg := min(ap, ad)
	if len(pickIDs) > 1 {
		r.DmgBalance = float64(minDmg) / float64(maxDmg)
	} else {
		r.DmgBalance = 0.5
	}
	return r
}

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Warning is a rule-based composition risk flag.
type Warning struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
	Solution string   `json:"solution,omitempty"`
}

// CompWarnings runs the independent composition checks in fixed order:
// damage balance first, then engage, frontline, CC.
func (e *Engine) CompWarnings(pickIDs []string) []Warning {
	warnings := []Warning{}
	radar := e.CompRadar(pickIDs)
	ap, ad := 0, 0
	for _, cid := range pickIDs {
		c, ok := e.cat.ByID(cid)
		if !ok {
			continue
		}
		switch c.Dmg {
		case catalog.DamageAP:
			ap++
		case catalog.DamageAD:
			ad++
		}
	}

	if ap >= 3 && ad <= 1 {
		warnings = append(warnings, Warning{
			Type: "COMP_RISK", Severity: SeverityHigh,
			Text:     "AP-heavy composition, weak into magic resist stacking",
			Solution: "prioritize an AD carry for the next pick",
		})
	}
	if ad >= 3 && ap <= 1 {
		warnings = append(warnings, Warning{
			Type: "COMP_RISK", Severity: SeverityHigh,
			Text:     "AD-heavy composition, weak into armor stacking",
			Solution: "prioritize an AP champion for the next pick",
		})
	}
	if radar.Engage < 0.2 && len(pickIDs) >= 3 {
		warnings = append(warnings, Warning{
			Type: "COMP_RISK", Severity: SeverityMedium,
			Text:     "low engage, hard to start teamfights",
			Solution: "consider a champion with reliable engage",
		})
	}
	if radar.Frontline < 0.2 && len(pickIDs) >= 3 {
		warnings = append(warnings, Warning{
			Type: "COMP_RISK", Severity: SeverityMedium,
			Text:     "low frontline, shaky teamfight structure",
			Solution: "add a tank or bruiser",
		})
	}
	if radar.CC < 0.15 && len(pickIDs) >= 3 {
		warnings = append(warnings, Warning{
			Type: "COMP_RISK", Severity: SeverityLow,
			Text: "low crowd control, hard to lock down enemy carries",
		})
	}
	return warnings
}
