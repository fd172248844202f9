package sections

import "encoding/json"

// Defaults returns the hard-coded content every section falls back to when
// no published row exists. The public page must render something sensible
// even against an empty or unreachable database.
func Defaults() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(Keys))
	for key, v := range defaultValues() {
		raw, err := json.Marshal(v)
		if err != nil {
			// Marshaling static literals cannot fail.
			panic(err)
		}
		out[key] = raw
	}
	return out
}

// DefaultFor returns the fallback content for one key, or nil for keys
// without a default.
func DefaultFor(key string) json.RawMessage {
	v, ok := defaultValues()[key]
	if !ok {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

func defaultValues() map[string]any {
	return map[string]any{
		KeyHero: Hero{
			Title:    "We Create the Space for Impact",
			Subtitle: "Full-service event production for brands that want to be remembered.",
			CTAText:  "Start Your Project",
			CTALink:  "#contact",
		},
		KeyAbout: About{
			Title: "About SPACE",
			Description: "SPACE is an event production company crafting immersive " +
				"experiences, from intimate brand activations to large-scale expos.",
			Highlights: []string{
				"Concept and creative direction",
				"Full technical production",
				"On-site event management",
			},
		},
		KeyServices: Services{
			Title: "What We Do",
			Items: []ServiceItem{
				{Title: "Event Production", Description: "End-to-end production from concept to strike."},
				{Title: "Brand Activations", Description: "Experiences that put your brand in people's hands."},
				{Title: "Exhibitions", Description: "Stands and pavilions that stop traffic."},
			},
		},
		KeyWork: Work{
			Title: "Selected Work",
			Items: []WorkItem{},
		},
		KeyGreenLifeExpo: GreenLifeExpo{
			Title: "Green Life Expo",
			Description: "Our flagship sustainability expo, bringing together " +
				"brands and visitors around greener living.",
		},
		KeyContact: Contact{
			Title: "Let's Talk",
			Email: "hello@space.events",
		},
		KeyFooter: Footer{
			Text: "SPACE. All rights reserved.",
		},
	}
}
