package debrief

import (
	"fmt"
	"strings"

	"github.com/abhisek/careerquest/internal/progression"
)

const systemPrompt = `You are a friendly careers coach reviewing a player's results in a game where short challenges simulate real jobs. Be specific and kind, and never invent challenges that are not listed.`

func buildUserMessage(in Input) string {
	var b strings.Builder
	cv := in.Career

	fmt.Fprintf(&b, "Career: %s\n", cv.Career.Name)
	if cv.Career.Description != "" {
		fmt.Fprintf(&b, "About: %s\n", cv.Career.Description)
	}
	fmt.Fprintf(&b, "Career status: %s (%.0f%% of challenges completed)\n", cv.Status.DisplayName(), cv.Completion*100)
	fmt.Fprintf(&b, "Player level: %d\n", in.Level.Level)

	b.WriteString("\nChallenges:\n")
	for _, ch := range cv.Challenges {
		writeChallenge(&b, ch)
	}

	b.WriteString(`
Instructions:
1. Write a one-sentence headline about how the run went.
2. List 1-3 strengths. Only praise challenges with a best score of 70 or more; if there are none, praise persistence on the most-attempted challenge.
3. List 1-3 next steps. Prefer replaying the lowest best score, then the next locked or unplayed challenge.
4. Plain text only, no markdown.`)
	return b.String()
}

func writeChallenge(b *strings.Builder, ch progression.ChallengeView) {
	d := ch.Definition
	fmt.Fprintf(b, "- %s (%s)", d.Title, d.Archetype.DisplayName())
	switch {
	case ch.Record != nil:
		fmt.Fprintf(b, ": best %d/%d, last %d, %d attempts\n", ch.Record.BestScore, d.MaxScore, ch.Record.Score, ch.Record.Attempts)
	case ch.Unlocked:
		b.WriteString(": not played yet\n")
	default:
		b.WriteString(": locked\n")
	}
}
