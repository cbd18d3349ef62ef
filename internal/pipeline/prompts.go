package pipeline

import (
	"fmt"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/domain"
)

const (
	classifyRole = "Sei un assistente editoriale che classifica articoli di finanza."
	articleRole  = "Sei un giornalista finanziario AI."
)

func classifyPrompt(title, summary string) string {
	return fmt.Sprintf(`
Titolo: %s
Descrizione: %s
Assegna una sola categoria tra: %s.
Rispondi solo con il nome, senza spiegazioni.
`, title, summary, domain.CategoryList())
}

func articlePrompt(title, summary, link string) string {
	return fmt.Sprintf(`
Scrivi un articolo originale (~300 parole), basato su:
Titolo: %s
Descrizione: %s
Fonte: %s
Stile: giornalistico, paragrafo, link finale alla fonte, nota 'generato da AI'.
`, title, summary, link)
}
