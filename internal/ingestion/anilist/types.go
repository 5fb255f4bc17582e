package anilist

import (
	"html"
	"regexp"
	"strings"

	"animedrop/internal/microservices/http-api/dto"
	"animedrop/internal/microservices/http-api/models"
)

// PageResponse is the shape of a Page(...) query.
type PageResponse struct {
	Page struct {
		Media []Media `json:"media"`
	} `json:"Page"`
}

// Media is an anime entry from AniList. Status is the airing state
// (FINISHED, RELEASING, ...), not a watch status. AverageScore is 0-100.
type Media struct {
	ID           int        `json:"id"`
	Title        Title      `json:"title"`
	Description  *string    `json:"description"`
	Status       string     `json:"status"`
	Episodes     *int       `json:"episodes"`
	CoverImage   CoverImage `json:"coverImage"`
	Genres       []string   `json:"genres"`
	AverageScore *int       `json:"averageScore"`
	SeasonYear   *int       `json:"seasonYear"`
}

type Title struct {
	English *string `json:"english"`
	Romaji  *string `json:"romaji"`
}

type CoverImage struct {
	Large *string `json:"large"`
}

// PreferredTitle picks the English title, falling back to romaji.
func (m Media) PreferredTitle() string {
	if m.Title.English != nil && strings.TrimSpace(*m.Title.English) != "" {
		return strings.TrimSpace(*m.Title.English)
	}
	if m.Title.Romaji != nil {
		return strings.TrimSpace(*m.Title.Romaji)
	}
	return ""
}

// ToCreateAnimeRequest maps m onto a new list entry with the given watch
// status. A missing description becomes the title so the entry stays valid.
func (m Media) ToCreateAnimeRequest(status models.AnimeStatus) dto.CreateAnimeRequest {
	title := m.PreferredTitle()
	req := dto.CreateAnimeRequest{
		Title:    title,
		Genres:   m.Genres,
		Status:   string(status),
		Episodes: m.Episodes,
	}
	if m.Description != nil {
		req.Description = CleanDescription(*m.Description)
	}
	if req.Description == "" {
		req.Description = title
	}
	if m.CoverImage.Large != nil {
		req.Image = *m.CoverImage.Large
	}
	return req
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// CleanDescription strips AniList's HTML markup and collapses whitespace.
func CleanDescription(desc string) string {
	desc = strings.NewReplacer("<br>", " ", "<br/>", " ", "<br />", " ").Replace(desc)
	desc = tagPattern.ReplaceAllString(desc, "")
	desc = html.UnescapeString(desc)
	return strings.TrimSpace(spacePattern.ReplaceAllString(desc, " "))
}
