package wizard

import (
	"fmt"
	"strings"

	"github.com/yeremiapane/casino-floor/models"
)

// Issue severities
const (
	SeverityBlocker = "blocker"
	SeverityWarning = "warning"
)

// Rule ids
const (
	RuleTimezone       = "S0-TZ"
	RuleGamingDay      = "S0-GDS"
	RuleBankMode       = "S0-BM"
	RuleMinGames       = "S1-MIN"
	RuleMinTables      = "S2-MIN"
	RuleLinkMulti      = "S2-LINK-MULTI"
	RuleLinkSingle     = "S2-LINK-SINGLE"
	RuleDuplicateLabel = "S2-LABEL"
	RuleParSkipped     = "S3-SKIP"
)

type ValidationIssue struct {
	Step     int    `json:"step"`
	RuleID   string `json:"ruleId"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

type Result struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues"`
}

// Blockers returns only the issues that prevent forward progress.
func (r Result) Blockers() []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityBlocker {
			out = append(out, issue)
		}
	}
	return out
}

// HasRule reports whether an issue with the given rule id is present.
func (r Result) HasRule(ruleID string) bool {
	for _, issue := range r.Issues {
		if issue.RuleID == ruleID {
			return true
		}
	}
	return false
}

func newResult(issues []ValidationIssue) Result {
	valid := true
	for _, issue := range issues {
		if issue.Severity == SeverityBlocker {
			valid = false
			break
		}
	}
	return Result{Valid: valid, Issues: issues}
}

// ValidateStep runs the rule set of one step. Steps without rules, and
// indexes outside the wizard, are always valid.
func ValidateStep(step int, state State) Result {
	var issues []ValidationIssue
	switch step {
	case StepCasinoBasics:
		issues = casinoBasicsRules(state)
	case StepGameSettings:
		issues = gameSettingsRules(state)
	case StepTables:
		issues = tableRules(state)
	case StepParTargets:
		issues = parTargetRules(state)
	}
	return newResult(issues)
}

// ValidateAllSteps concatenates the issues of every step, in step order.
func ValidateAllSteps(state State) Result {
	var issues []ValidationIssue
	for step := 0; step < TotalSteps; step++ {
		issues = append(issues, ValidateStep(step, state).Issues...)
	}
	return newResult(issues)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func casinoBasicsRules(state State) []ValidationIssue {
	var timezone, gamingDay, bankMode string
	if s := state.Settings; s != nil {
		timezone, gamingDay, bankMode = s.Timezone, s.GamingDayStartTime, s.TableBankMode
	}

	var issues []ValidationIssue
	if blank(timezone) {
		issues = append(issues, ValidationIssue{
			Step: StepCasinoBasics, RuleID: RuleTimezone, Severity: SeverityBlocker,
			Message: "Timezone is required", Field: "timezone",
		})
	}
	if blank(gamingDay) {
		issues = append(issues, ValidationIssue{
			Step: StepCasinoBasics, RuleID: RuleGamingDay, Severity: SeverityBlocker,
			Message: "Gaming day start time is required", Field: "gamingDayStartTime",
		})
	}
	if blank(bankMode) {
		issues = append(issues, ValidationIssue{
			Step: StepCasinoBasics, RuleID: RuleBankMode, Severity: SeverityBlocker,
			Message: "Table bank mode is required", Field: "tableBankMode",
		})
	}
	return issues
}

func gameSettingsRules(state State) []ValidationIssue {
	if len(state.Games) > 0 {
		return nil
	}
	return []ValidationIssue{{
		Step: StepGameSettings, RuleID: RuleMinGames, Severity: SeverityBlocker,
		Message: "Configure at least one game",
	}}
}

func tableRules(state State) []ValidationIssue {
	if len(state.Tables) == 0 {
		return []ValidationIssue{{
			Step: StepTables, RuleID: RuleMinTables, Severity: SeverityBlocker,
			Message: "Create at least one gaming table",
		}}
	}

	variants := make(map[string]int)
	for _, g := range state.Games {
		variants[g.GameType]++
	}

	var issues []ValidationIssue
	for i, t := range state.Tables {
		if t.GameSettingsID != nil && *t.GameSettingsID != "" {
			continue
		}
		field := fmt.Sprintf("tables[%d].gameSettingsId", i)
		switch n := variants[t.GameType]; {
		case n > 1:
			issues = append(issues, ValidationIssue{
				Step: StepTables, RuleID: RuleLinkMulti, Severity: SeverityBlocker,
				Message: fmt.Sprintf("Table %q must be linked to one of the %d %s variants", t.Label, n, t.GameType),
				Field:   field,
			})
		case n == 1:
			issues = append(issues, ValidationIssue{
				Step: StepTables, RuleID: RuleLinkSingle, Severity: SeverityWarning,
				Message: fmt.Sprintf("Table %q has no variant link; the only %s variant applies", t.Label, t.GameType),
				Field:   field,
			})
		}
	}

	seen := make(map[string][]int)
	var order []string
	for i, t := range state.Tables {
		key := strings.ToLower(strings.TrimSpace(t.Label))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			order = append(order, key)
		}
		seen[key] = append(seen[key], i)
	}
	for _, key := range order {
		idx := seen[key]
		if len(idx) < 2 {
			continue
		}
		issues = append(issues, ValidationIssue{
			Step: StepTables, RuleID: RuleDuplicateLabel, Severity: SeverityBlocker,
			Message: fmt.Sprintf("Label %q is used by %d tables", strings.TrimSpace(state.Tables[idx[0]].Label), len(idx)),
			Field:   fmt.Sprintf("tables[%d].label", idx[1]),
		})
	}
	return issues
}

func parTargetRules(state State) []ValidationIssue {
	if len(state.Tables) == 0 {
		return nil
	}
	for _, t := range state.Tables {
		if hasPar(t) {
			return nil
		}
	}
	return []ValidationIssue{{
		Step: StepParTargets, RuleID: RuleParSkipped, Severity: SeverityWarning,
		Message: "No table has a par target; imprest tracking will be unavailable",
	}}
}

func hasPar(t models.GamingTable) bool {
	return t.ParTotalCents != nil && *t.ParTotalCents > 0
}
