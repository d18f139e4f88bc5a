package admin

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/talkincode/storefront/internal/ai"
	"github.com/talkincode/storefront/internal/domain"
)

func DescriptionPrompt(name, category string) string {
	return fmt.Sprintf("Eres un experto en marketing gastronómico. Crea una descripción de menú atractiva y concisa (máximo 25 palabras) para un producto llamado \"%s\" que pertenece a la categoría \"%s\". Usa un tono apetitoso y descriptivo.", name, category)
}

func SloganPrompt(businessName string) string {
	return fmt.Sprintf("Eres un experto en branding. Genera 3 eslóganes cortos y memorables para un restaurante llamado \"%s\". Devuelve solo los eslóganes, cada uno en una nueva línea.", businessName)
}

// PromotionPrompt lists the products as "name ($price)".
func PromotionPrompt(products []domain.Product) string {
	list := make([]string, 0, len(products))
	for _, p := range products {
		list = append(list, fmt.Sprintf("%s ($%s)", p.Name, cast.ToString(p.Price)))
	}
	return "Eres un gerente de restaurante creativo. Basado en la siguiente lista de productos: " +
		strings.Join(list, ", ") +
		", diseña una promoción atractiva. Proporciona un título, un subtítulo, una descripción detallada y un precio sugerido para la promoción."
}

// PromotionSchema is the structured answer requested for promotion ideas.
func PromotionSchema() *ai.Schema {
	return ai.Object(map[string]*ai.Schema{
		"title":       ai.Field(ai.TypeString, "Título principal de la promoción (ej: Combo Amigos)."),
		"subtitle":    ai.Field(ai.TypeString, "Subtítulo corto y pegadizo (ej: 2 Hamburguesas + Papas Grandes)."),
		"description": ai.Field(ai.TypeString, "Descripción detallada de lo que incluye la promoción."),
		"price":       ai.Field(ai.TypeNumber, "Un precio atractivo y redondeado para la promoción."),
	}, "title", "subtitle", "description", "price")
}

// SplitSlogans returns one suggestion per non-blank line.
func SplitSlogans(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
