package engine

// DraftOrder is the fixed 20-step ban/pick sequence of a 5v5 draft.
// It is identical for every game of every series.
var DraftOrder = []TurnStep{
	// Ban Phase 1
	{Side: SideBlue, Action: ActionBan, Phase: PhaseBan1},
	{Side: SideRed, Action: ActionBan, Phase: PhaseBan1},
	{Side: SideBlue, Action: ActionBan, Phase: PhaseBan1},
	{Side: SideRed, Action: ActionBan, Phase: PhaseBan1},
	{Side: SideBlue, Action: ActionBan, Phase: PhaseBan1},
	{Side: SideRed, Action: ActionBan, Phase: PhaseBan1},
	// Pick Phase 1
	{Side: SideBlue, Action: ActionPick, Phase: PhasePick1},
	{Side: SideRed, Action: ActionPick, Phase: PhasePick1},
	{Side: SideRed, Action: ActionPick, Phase: PhasePick1},
	{Side: SideBlue, Action: ActionPick, Phase: PhasePick1},
	{Side: SideBlue, Action: ActionPick, Phase: PhasePick1},
	{Side: SideRed, Action: ActionPick, Phase: PhasePick1},
	// Ban Phase 2
	{Side: SideRed, Action: ActionBan, Phase: PhaseBan2},
	{Side: SideBlue, Action: ActionBan, Phase: PhaseBan2},
	{Side: SideRed, Action: ActionBan, Phase: PhaseBan2},
	{Side: SideBlue, Action: ActionBan, Phase: PhaseBan2},
	// Pick Phase 2
	{Side: SideRed, Action: ActionPick, Phase: PhasePick2},
	{Side: SideBlue, Action: ActionPick, Phase: PhasePick2},
	{Side: SideBlue, Action: ActionPick, Phase: PhasePick2},
	{Side: SideRed, Action: ActionPick, Phase: PhasePick2},
}

// DerivePhase maps a turn index onto its draft phase.
func DerivePhase(turnIndex int) Phase {
	if turnIndex < 0 {
		return PhaseBan1
	}
	if turnIndex >= len(DraftOrder) {
		return PhaseDone
	}
	return DraftOrder[turnIndex].Phase
}
