package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"VergeDigest/internal/domain"
)

var (
	indexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	linkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func renderListing(articles []domain.Article, width int) string {
	if len(articles) == 0 {
		return metaStyle.Render("No headlines available.") + "\n"
	}

	var sb strings.Builder
	for i, article := range articles {
		sb.WriteString(indexStyle.Render(fmt.Sprintf("%d.", i+1)))
		sb.WriteString(" ")
		sb.WriteString(titleStyle.Render(truncate(article.Title, width)))
		sb.WriteString("\n   ")
		sb.WriteString(metaStyle.Render(byline(article)))
		sb.WriteString("\n   ")
		sb.WriteString(linkStyle.Render(article.URL))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func renderSummary(summary domain.Summary) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(summary.Article.Title))
	sb.WriteString("\n\n")
	sb.WriteString(summary.Text)
	sb.WriteString("\n\n")
	sb.WriteString(metaStyle.Render("View the full article: "))
	sb.WriteString(linkStyle.Render(summary.Article.URL))
	sb.WriteString("\n")
	return sb.String()
}

func byline(article domain.Article) string {
	author := strings.TrimSpace(article.Author)
	if author == "" {
		author = "unknown author"
	}
	return fmt.Sprintf("Written by %s & published on %s", author, article.PublishedDate())
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
