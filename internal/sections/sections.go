// Package sections defines the typed content payloads behind each landing
// page section key. The database stores raw JSON; this package is the single
// place that knows what shape each key carries, validates writes, and holds
// the hard-coded defaults the public page falls back to when a section is
// missing or unpublished.
package sections

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalid marks payloads rejected by Validate, so callers can tell a
// bad payload apart from a store failure.
var ErrInvalid = errors.New("invalid section payload")

// Section keys known to the landing page.
const (
	KeyHero          = "hero"
	KeyAbout         = "about"
	KeyServices      = "services"
	KeyWork          = "work"
	KeyGreenLifeExpo = "green_life_expo"
	KeyContact       = "contact"
	KeyFooter        = "footer"
)

// Keys lists every known section key in page order.
var Keys = []string{
	KeyHero, KeyAbout, KeyServices, KeyWork,
	KeyGreenLifeExpo, KeyContact, KeyFooter,
}

// Hero is the full-screen opener.
type Hero struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	BackgroundImage string `json:"background_image,omitempty"`
	CTAText         string `json:"cta_text,omitempty"`
	CTALink         string `json:"cta_link,omitempty"`
}

// About is the company introduction block.
type About struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// ServiceItem is one offering card inside the services section.
type ServiceItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// Services is the offerings grid.
type Services struct {
	Title string        `json:"title"`
	Items []ServiceItem `json:"items"`
}

// WorkItem is one portfolio entry.
type WorkItem struct {
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
	Link  string `json:"link,omitempty"`
}

// Work is the portfolio section.
type Work struct {
	Title string     `json:"title"`
	Items []WorkItem `json:"items"`
}

// GreenLifeExpo is the featured-event spotlight.
type GreenLifeExpo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Link        string `json:"link,omitempty"`
}

// Contact is the contact block.
type Contact struct {
	Title   string `json:"title"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Footer is the page footer.
type Footer struct {
	Text    string            `json:"text"`
	Social  map[string]string `json:"social,omitempty"`
	Credits string            `json:"credits,omitempty"`
}

// Validate checks that raw is valid JSON and, for a known section key,
// decodes into that key's typed shape. Unknown keys only need to be valid
// JSON objects so the store can carry sections the renderer does not know.
func Validate(key string, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return fmt.Errorf("section %q: not valid json: %w", key, ErrInvalid)
	}

	var target any
	switch key {
	case KeyHero:
		target = &Hero{}
	case KeyAbout:
		target = &About{}
	case KeyServices:
		target = &Services{}
	case KeyWork:
		target = &Work{}
	case KeyGreenLifeExpo:
		target = &GreenLifeExpo{}
	case KeyContact:
		target = &Contact{}
	case KeyFooter:
		target = &Footer{}
	default:
		// Opaque payload, shape not enforced.
		target = &map[string]any{}
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("section %q: %v: %w", key, err, ErrInvalid)
	}
	return nil
}
