package wordgen

import (
	"fmt"
	"strings"
)

// buildPrompt asks for count concrete French words about theme for
// preschool children, one per line.
func buildPrompt(theme string, count int, exclude []string) string {
	var exclusions string
	if len(exclude) > 0 {
		var sb strings.Builder
		sb.WriteString("\n\nMOTS INTERDITS (déjà utilisés, tu DOIS proposer des mots complètement différents):\n")
		for _, w := range exclude {
			sb.WriteString("- " + w + "\n")
		}
		exclusions = strings.TrimRight(sb.String(), "\n")
	}

	return fmt.Sprintf(`Tu es un assistant pédagogique spécialisé en école maternelle française.

TÂCHE: Génère EXACTEMENT %d mots ou expressions simples en FRANÇAIS sur le thème "%s".

PUBLIC: enfants de 3 à 6 ans (Petite, Moyenne et Grande Section).

RÈGLES:
1. Des exemples CONCRETS, jamais des catégories générales.
   Mauvais: "sport", "animal", "fruit". Bons: "natation", "éléphant", "banane".
   Chaque mot doit pouvoir être dessiné ou photographié.
2. Vocabulaire courant et familier des jeunes enfants, rien d'abstrait.
3. Noms communs de préférence. Expressions courtes autorisées ("pomme de pin").
   Pas de verbes conjugués ni d'adjectifs compliqués.
4. Mots simples: 12 lettres maximum. Expressions: 3 mots maximum.%s

FORMAT DE RÉPONSE: uniquement la liste, un mot par ligne.
Pas de numérotation, pas de tirets ni de puces, pas d'explication.

EXEMPLES:
Thème "automne": feuille d'arbre, champignon, citrouille, marron, écureuil, pomme de pin
Thème "sports" (et non "sport"): handball, natation, escrime, judo, cyclisme
Thème "animaux de la ferme" (et non "animal"): vache, cochon, poule, mouton, chèvre

Génère maintenant %d mots ou expressions pour "%s":`,
		count, theme, exclusions, count, theme)
}
