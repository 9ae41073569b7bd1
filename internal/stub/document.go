package stub

import (
	"fmt"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// renderDocument builds the plain-text requirements specification.
func renderDocument(p *Project, now time.Time) string {
	rule := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 80)

	var b strings.Builder
	section := func(title string) {
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n\n", rule, title, rule)
	}

	fmt.Fprintf(&b, "%s\nSOFTWARE REQUIREMENTS SPECIFICATION (SRS)\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "PROJECT INFORMATION\n%s\n", thin)
	fmt.Fprintf(&b, "Project Name: %s\n", p.Name)
	desc := p.Description
	if desc == "" {
		desc = "No description provided"
	}
	fmt.Fprintf(&b, "Description: %s\n", desc)
	fmt.Fprintf(&b, "Created: %s\n", p.CreatedAt.Format(timeLayout))
	fmt.Fprintf(&b, "Last Modified: %s\n", p.ModifiedAt.Format(timeLayout))
	fmt.Fprintf(&b, "Document Generated: %s\n", now.Format(timeLayout))

	section("1. CONVERSATION HISTORY & REQUIREMENTS ELICITATION")
	for i, t := range p.Turns {
		fmt.Fprintf(&b, "[Exchange %d]\nUser: %s\nBot: %s\nTimestamp: %s\n%s\n",
			i+1, t.User, t.Bot, t.Timestamp.Format(timeLayout), strings.Repeat("-", 40))
	}

	var functional, nonFunctional []Requirement
	for _, r := range p.Requirements {
		if r.Kind == KindNonFunctional {
			nonFunctional = append(nonFunctional, r)
		} else {
			functional = append(functional, r)
		}
	}

	section("2. FUNCTIONAL REQUIREMENTS")
	writeRequirements(&b, "FR", functional, "No functional requirements captured yet.")

	section("3. NON-FUNCTIONAL REQUIREMENTS")
	writeRequirements(&b, "NFR", nonFunctional, "No non-functional requirements captured yet.")

	section("4. AMBIGUITIES DETECTED")
	writeIssues(&b, "AMB", p.Ambiguities, "detected", "No ambiguities detected.")

	section("5. CONTRADICTIONS DETECTED")
	writeIssues(&b, "CTR", p.Contradictions, "flagged", "No contradictions detected.")

	section("6. SUMMARY STATISTICS")
	fmt.Fprintf(&b, "Total Requirements Captured: %d\n", len(p.Requirements))
	fmt.Fprintf(&b, "Functional Requirements: %d\n", len(functional))
	fmt.Fprintf(&b, "Non-Functional Requirements: %d\n", len(nonFunctional))
	fmt.Fprintf(&b, "Ambiguities Detected: %d\n", len(p.Ambiguities))
	fmt.Fprintf(&b, "Contradictions Detected: %d\n", len(p.Contradictions))
	fmt.Fprintf(&b, "Total Conversation Exchanges: %d\n", len(p.Turns))

	fmt.Fprintf(&b, "\n%s\nEND OF DOCUMENT\n%s\n", rule, rule)
	return b.String()
}

func writeRequirements(b *strings.Builder, prefix string, reqs []Requirement, empty string) {
	if len(reqs) == 0 {
		b.WriteString(empty + "\n")
		return
	}
	for i, r := range reqs {
		fmt.Fprintf(b, "%s-%d: %s\n\n", prefix, i+1, r.Text)
	}
}

func writeIssues(b *strings.Builder, prefix string, issues []Issue, openStatus, empty string) {
	if len(issues) == 0 {
		b.WriteString(empty + "\n")
		return
	}
	for i, is := range issues {
		status := openStatus
		if is.Resolved {
			status = "resolved"
		}
		fmt.Fprintf(b, "%s-%d: %s\n     Status: %s\n\n", prefix, i+1, is.Text, status)
	}
}
