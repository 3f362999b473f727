package ui

import (
	"fmt"
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"startime/conversation"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// markdownCache keeps rendered assistant replies; a snapshot re-sends every
// message, so without it each push would re-render the whole history.
type markdownCache map[string]string

func (c markdownCache) render(content string, width int) string {
	key := fmt.Sprintf("%d:%s", width, content)
	if out, ok := c[key]; ok {
		return out
	}
	out := renderMarkdown(content, width)
	c[key] = out
	return out
}

// renderMarkdown renders assistant text for the terminal. Autolink is off so
// URLs stay plain and the terminal can make them clickable.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}

	content = mdLinkRegex.ReplaceAllString(content, "$2")

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width, 0)
	rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

	// Inline code: blue background + italic becomes red text
	rendered = inlineCodeRegex.ReplaceAllString(rendered, "\x1b[31m$1\x1b[0m")
	return strings.TrimRight(rendered, "\n")
}

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// cardRenderer draws conversation rows as terminal cards
type cardRenderer struct {
	width   int
	spinner string
	md      markdownCache
}

// renderConversation draws every projected row; rows whose card is CardNone
// (system prompts) are skipped.
func (r cardRenderer) renderConversation(messages []conversation.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		card := conversation.SelectCard(msg)
		out := r.render(card)
		if out == "" {
			continue
		}
		b.WriteString(out)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r cardRenderer) render(card conversation.Card) string {
	switch card.Kind {
	case conversation.CardUserText:
		return r.userCard(card.Prompt)
	case conversation.CardAssistantMarkdown:
		return r.assistantCard(card.Text)
	case conversation.CardEventDetail:
		return r.eventCard(card.Event)
	case conversation.CardEventList:
		return r.eventListCard(card)
	case conversation.CardWaiting:
		return r.waitingCard(card.Caption)
	default:
		return ""
	}
}

func (r cardRenderer) userCard(p conversation.UserPrompt) string {
	bar := UserStyle.Render("┃")
	lines := []string{bar + " " + UserStyle.Render("You")}

	for _, line := range strings.Split(p.Text, "\n") {
		lines = append(lines, bar+" "+line)
	}
	if p.Transcript != "" {
		lines = append(lines, bar+" "+DimStyle.Render("🎙 "+p.Transcript))
	}
	if p.Images > 0 {
		label := "image"
		if p.Images > 1 {
			label = "images"
		}
		lines = append(lines, bar+" "+DimStyle.Render(fmt.Sprintf("🖼 %d %s attached", p.Images, label)))
	}
	return strings.Join(lines, "\n")
}

func (r cardRenderer) assistantCard(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	md := r.md
	if md == nil {
		md = markdownCache{}
	}
	return AssistantStyle.Render("StarTime") + "\n" + md.render(text, r.width-4)
}

func (r cardRenderer) cardWidth() int {
	w := r.width - 4
	if w > 72 {
		w = 72
	}
	if w < 24 {
		w = 24
	}
	return w
}

// eventTimeRange prints "Fri, May 10, 09:00 AM UTC – 10:00 AM UTC"; the end
// keeps its date only when it falls on another day.
func eventTimeRange(e conversation.EventDetails) string {
	start := e.Start.Format(true)
	if e.End.IsZero() {
		return start
	}

	full := true
	if s, err := e.Start.Time(); err == nil {
		if en, err := e.End.Time(); err == nil {
			full = s.YearDay() != en.YearDay() || s.Year() != en.Year()
		}
	}
	if e.Start.AllDay() && e.End.AllDay() {
		full = true
	}
	return start + " – " + e.End.Format(full)
}

func (r cardRenderer) eventLines(e conversation.EventDetails, w int) []string {
	summary := e.Summary
	if summary == "" {
		summary = "(untitled event)"
	}
	lines := []string{TitleStyle.Render("📅 " + truncate(summary, w-3))}

	if !e.Start.IsZero() {
		lines = append(lines, "🕑 "+eventTimeRange(e))
	}
	if e.Location != "" {
		lines = append(lines, "📍 "+truncate(e.Location, w-3))
	}
	if e.Description != "" {
		lines = append(lines, DimStyle.Render(truncate(e.Description, w)))
	}
	if len(e.Attendees) > 0 {
		names := make([]string, len(e.Attendees))
		for i, a := range e.Attendees {
			names[i] = a.Label()
		}
		lines = append(lines, "👥 "+truncate(strings.Join(names, ", "), w-3))
	}
	if e.Status != "" {
		lines = append(lines, DimStyle.Render("status: "+e.Status))
	}
	if e.HTMLLink != "" {
		lines = append(lines, DimStyle.Render(e.HTMLLink))
	}
	return lines
}

func (r cardRenderer) eventCard(e conversation.EventDetails) string {
	w := r.cardWidth()
	return EventCardStyle.Width(w).Render(strings.Join(r.eventLines(e, w-4), "\n"))
}

func (r cardRenderer) eventListCard(card conversation.Card) string {
	w := r.cardWidth()
	if len(card.Events) == 0 {
		return EventCardStyle.Width(w).Render(DimStyle.Render("No events found."))
	}

	var blocks []string
	for _, e := range card.Events {
		blocks = append(blocks, strings.Join(r.eventLines(e, w-4), "\n"))
	}
	header := DimStyle.Render(fmt.Sprintf("%d events", len(card.Events)))
	return EventCardStyle.Width(w).Render(header + "\n\n" + strings.Join(blocks, "\n\n"))
}

func (r cardRenderer) waitingCard(caption string) string {
	w := r.cardWidth()
	skeleton := DimStyle.Render(strings.Repeat("░", w-6))
	body := strings.Join([]string{
		strings.TrimSpace(r.spinner + " " + caption),
		skeleton,
		DimStyle.Render(strings.Repeat("░", (w-6)/2)),
	}, "\n")
	return WaitingCardStyle.Width(w).Render(body)
}
