package main

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

const suggestPrompt = `Tu génères des listes de mots pour des grilles de mots mêlés.

Thème : %q
Nombre de mots : %d
Longueur maximale d'un mot : %d lettres

Règles :
- Chaque mot est en MAJUSCULES, sans espace, sans trait d'union, sans accent (lettres A-Z uniquement).
- Les mots sont tous liés au thème, variés, et d'au moins 3 lettres.
- Aucun mot n'est la répétition ou le pluriel trivial d'un autre mot de la liste.
- Réponds UNIQUEMENT avec un tableau JSON de chaînes, sans commentaire ni markdown.

Exemple de réponse : ["SOLEIL","PLAGE","VAGUE"]`

// SuggestWords asks Gemini Flash for a themed word list suitable for
// a word-search grid. maxLen bounds word length so every suggestion
// can fit the requested grid.
func (g *GeminiClient) SuggestWords(ctx context.Context, theme string, count, maxLen int) ([]string, error) {
	prompt := fmt.Sprintf(suggestPrompt, theme, count, maxLen)

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.7)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}

	var words []string
	if err := json.Unmarshal([]byte(text), &words); err != nil {
		return nil, fmt.Errorf("parse word list JSON: %w\nraw response: %s", err, text)
	}

	// The model occasionally ignores a constraint; enforce them here.
	cleaned := make([]string, 0, len(words))
	for _, w := range cleanWords(words) {
		if validWord(w) && len(w) <= maxLen {
			cleaned = append(cleaned, w)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("no usable words in gemini response: %s", text)
	}
	if len(cleaned) > count {
		cleaned = cleaned[:count]
	}

	return cleaned, nil
}
