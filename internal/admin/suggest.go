package admin

import (
	"context"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/notify"
)

var (
	// ErrNotMounted is returned for panel actions while the panel is closed.
	ErrNotMounted = errors.New("admin panel is not open")
	// ErrStale marks an AI result that arrived after its panel was closed.
	ErrStale = errors.New("admin panel closed before the suggestion arrived")
)

// PromotionSuggestion is the structured promotion idea.
type PromotionSuggestion struct {
	Title       string  `json:"title" mapstructure:"title"`
	Subtitle    string  `json:"subtitle" mapstructure:"subtitle"`
	Description string  `json:"description" mapstructure:"description"`
	Price       float64 `json:"price" mapstructure:"price"`
}

// Suggestion is the AI result shown to the admin until applied or
// dismissed.
type Suggestion struct {
	Title     string               `json:"title"`
	Slogans   []string             `json:"slogans,omitempty"`
	Promotion *PromotionSuggestion `json:"promotion,omitempty"`
}

// begin claims the single AI slot for the open panel.
func (c *Controller) begin() (uint64, func(), error) {
	c.mu.Lock()
	mounted, gen := c.mounted, c.generation
	c.mu.Unlock()
	if !mounted {
		return 0, nil, ErrNotMounted
	}
	if c.gen == nil {
		return 0, nil, errors.Wrap(domain.ErrAITransport, "ai is not configured")
	}
	if !c.aiSlot.TryAcquire(1) {
		return 0, nil, errors.WithStack(domain.ErrAIBusy)
	}
	c.notify(notify.KindInfo, "✨ Generando con IA...")
	return gen, func() { c.aiSlot.Release(1) }, nil
}

// live must be called with the lock held.
func (c *Controller) live(gen uint64) bool {
	return c.mounted && c.generation == gen
}

func (c *Controller) aiFailed(err error) error {
	zap.L().Warn("ai suggestion failed", zap.String("namespace", "ai"), zap.Error(err))
	var msg string
	switch {
	case errors.Is(err, domain.ErrAIResponseMalformed):
		msg = "Error al procesar la sugerencia de IA."
	case errors.Is(err, domain.ErrAIEmptyResponse):
		msg = "Error de IA: no se recibió contenido."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		msg = "Error de IA: la solicitud fue cancelada."
	default:
		msg = "Error de IA: no se pudo contactar al servicio."
	}
	c.notify(notify.KindError, msg)
	return err
}

func stale(gen uint64) error {
	zap.L().Debug("discarding ai result for closed panel", zap.String("namespace", "ai"), zap.Uint64("generation", gen))
	return ErrStale
}

// GenerateDescription fills the product form description from the product
// name and category.
func (c *Controller) GenerateDescription(ctx context.Context) (string, error) {
	return c.GenerateDescriptionFor(ctx, "", "")
}

// GenerateDescriptionFor is GenerateDescription with a name and category
// that replace the form's own when not blank. They reach the form together
// with the description, and only when the suggestion succeeds.
func (c *Controller) GenerateDescriptionFor(ctx context.Context, name, category string) (string, error) {
	c.mu.Lock()
	form := c.productForm
	c.mu.Unlock()
	if strings.TrimSpace(name) != "" {
		form.Name = name
		if category != "" {
			form.Category = category
		}
	}
	if strings.TrimSpace(form.Name) == "" {
		return "", c.reject(invalid("product name is required"), "Por favor, ingresa un nombre de producto primero.")
	}
	gen, release, err := c.begin()
	if err != nil {
		return "", err
	}
	defer release()

	text, err := c.gen.GenerateText(ctx, DescriptionPrompt(form.Name, form.Category))
	if err != nil {
		return "", c.aiFailed(err)
	}
	c.mu.Lock()
	if !c.live(gen) {
		c.mu.Unlock()
		return "", stale(gen)
	}
	c.productForm.Name = form.Name
	c.productForm.Category = form.Category
	c.productForm.Description = text
	c.mu.Unlock()
	c.notify(notify.KindSuccess, "¡Sugerencia generada!")
	return text, nil
}

// GenerateSlogans asks for slogan ideas for the business name in the
// settings form.
func (c *Controller) GenerateSlogans(ctx context.Context) ([]string, error) {
	return c.GenerateSlogansFor(ctx, "")
}

// GenerateSlogansFor asks for slogans for businessName, falling back to the
// settings form. The name is copied into the form only on success.
func (c *Controller) GenerateSlogansFor(ctx context.Context, businessName string) ([]string, error) {
	name := businessName
	if strings.TrimSpace(name) == "" {
		c.mu.Lock()
		name = c.settingsForm.BusinessName
		c.mu.Unlock()
	}
	if strings.TrimSpace(name) == "" {
		return nil, c.reject(invalid("business name is required"), "Por favor, ingresa el nombre de tu negocio.")
	}
	gen, release, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer release()

	text, err := c.gen.GenerateText(ctx, SloganPrompt(name))
	if err != nil {
		return nil, c.aiFailed(err)
	}
	slogans := SplitSlogans(text)
	c.mu.Lock()
	if !c.live(gen) {
		c.mu.Unlock()
		return nil, stale(gen)
	}
	c.settingsForm.BusinessName = name
	c.suggestion = &Suggestion{Title: "Sugerencias de Eslogan", Slogans: slogans}
	c.mu.Unlock()
	c.notify(notify.KindSuccess, "¡Sugerencia generada!")
	return slogans, nil
}

// GeneratePromotion asks for a promotion built from the current products.
// The banner form is not touched until ApplyPromotion.
func (c *Controller) GeneratePromotion(ctx context.Context) (PromotionSuggestion, error) {
	gen, release, err := c.begin()
	if err != nil {
		return PromotionSuggestion{}, err
	}
	defer release()

	var raw map[string]interface{}
	if err := c.gen.GenerateStructured(ctx, PromotionPrompt(c.store.Products()), PromotionSchema(), &raw); err != nil {
		return PromotionSuggestion{}, c.aiFailed(err)
	}
	var promo PromotionSuggestion
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &promo,
	})
	if err == nil {
		err = dec.Decode(raw)
	}
	if err != nil {
		return PromotionSuggestion{}, c.aiFailed(errors.Wrap(domain.ErrAIResponseMalformed, err.Error()))
	}

	c.mu.Lock()
	if !c.live(gen) {
		c.mu.Unlock()
		return PromotionSuggestion{}, stale(gen)
	}
	p := promo
	c.suggestion = &Suggestion{Title: "Idea para Promoción", Promotion: &p}
	c.mu.Unlock()
	c.notify(notify.KindSuccess, "¡Sugerencia generada!")
	return promo, nil
}

func (c *Controller) Suggestion() (Suggestion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.suggestion == nil {
		return Suggestion{}, false
	}
	return *c.suggestion, true
}

func (c *Controller) DismissSuggestion() {
	c.mu.Lock()
	c.suggestion = nil
	c.mu.Unlock()
}

// ApplyPromotion loads the suggested promotion into a new banner form.
func (c *Controller) ApplyPromotion() (BannerForm, error) {
	c.mu.Lock()
	if c.suggestion == nil || c.suggestion.Promotion == nil {
		c.mu.Unlock()
		return BannerForm{}, errors.Wrap(domain.ErrNotFound, "no promotion suggestion")
	}
	p := c.suggestion.Promotion
	c.bannerForm = BannerForm{
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		Description: p.Description,
		Price:       p.Price,
		IsPromotion: true,
		ImageUrl:    "",
	}
	c.editingBanner = ""
	c.tab = TabBanners
	c.suggestion = nil
	form := c.bannerForm
	c.mu.Unlock()
	c.notify(notify.KindInfo, "Datos de promoción cargados en el formulario.")
	return form, nil
}

// ApplySlogan copies suggested slogan i into the settings form.
func (c *Controller) ApplySlogan(i int) (domain.Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.suggestion == nil || i < 0 || i >= len(c.suggestion.Slogans) {
		return domain.Settings{}, errors.Wrap(domain.ErrNotFound, "no such slogan suggestion")
	}
	c.settingsForm.Slogan = c.suggestion.Slogans[i]
	c.suggestion = nil
	return c.settingsForm, nil
}
