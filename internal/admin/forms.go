package admin

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/notify"
	"github.com/talkincode/storefront/internal/storefront"
	"github.com/talkincode/storefront/internal/whatsapp"
)

// ProductForm is the product editor. Price holds raw input and is parsed
// on submit.
type ProductForm struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       interface{} `json:"price"`
	Category    string      `json:"category"`
	ImageUrl    string      `json:"imageUrl"`
}

type CategoryForm struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type BannerForm struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	ImageUrl    string      `json:"imageUrl"`
	IsPromotion bool        `json:"isPromotion"`
	Price       interface{} `json:"price"`
	Description string      `json:"description"`
}

func (c *Controller) emptyProductForm() ProductForm {
	return ProductForm{Price: "", Category: storefront.DefaultProductCategory(c.store.Categories())}
}

func emptyCategoryForm() CategoryForm {
	return CategoryForm{Icon: domain.IconUtensils.String()}
}

func emptyBannerForm() BannerForm {
	return BannerForm{Price: 0}
}

// ParsePrice reads a price the way the form does: anything unparsable
// counts as zero.
func ParsePrice(raw interface{}) float64 {
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func hasValue(raw interface{}) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	default:
		return true
	}
}

// reject reports a form error to the admin and returns it.
func (c *Controller) reject(err error, message string) error {
	zap.L().Info("admin form rejected", zap.String("namespace", "admin"), zap.Error(err))
	c.notify(notify.KindError, message)
	return err
}

func invalid(message string) error {
	return errors.Wrap(domain.ErrValidation, message)
}

func (c *Controller) ProductForm() (ProductForm, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.productForm, c.editingProduct
}

func (c *Controller) SetProductForm(f ProductForm) {
	c.mu.Lock()
	c.productForm = f
	c.mu.Unlock()
}

// EditProduct loads product id into the form.
func (c *Controller) EditProduct(id string) error {
	p, ok := c.store.Product(id)
	if !ok {
		return errors.Wrapf(domain.ErrNotFound, "product %s", id)
	}
	c.mu.Lock()
	c.productForm = ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		ImageUrl:    p.ImageUrl,
	}
	c.editingProduct = id
	c.mu.Unlock()
	return nil
}

// CancelProductEdit clears the form and the edit target.
func (c *Controller) CancelProductEdit() {
	f := c.emptyProductForm()
	c.mu.Lock()
	c.productForm = f
	c.editingProduct = ""
	c.mu.Unlock()
}

// SubmitProduct saves the form as a new product or over the product being
// edited. On error the form is left as it was.
func (c *Controller) SubmitProduct() (domain.Product, error) {
	c.mu.Lock()
	form, editing := c.productForm, c.editingProduct
	c.mu.Unlock()

	name := strings.TrimSpace(form.Name)
	if name == "" {
		return domain.Product{}, c.reject(invalid("product name is required"), "Por favor, ingresa un nombre de producto.")
	}
	price := ParsePrice(form.Price)
	if price < 0 {
		return domain.Product{}, c.reject(invalid("product price is negative"), "El precio no puede ser negativo.")
	}
	category := form.Category
	if category == "" {
		category = storefront.DefaultProductCategory(c.store.Categories())
	}
	if category == domain.PromotionsCategory {
		return domain.Product{}, c.reject(invalid("products cannot be filed under promotions"), "Selecciona una categoría válida.")
	}
	data := domain.Product{
		Name:        name,
		Category:    category,
		Price:       price,
		Description: form.Description,
		ImageUrl:    form.ImageUrl,
	}

	if editing != "" {
		if !c.store.UpdateProduct(editing, data) {
			return domain.Product{}, c.reject(errors.Wrapf(domain.ErrNotFound, "product %s", editing), "El producto ya no existe.")
		}
		data.ID = editing
		c.notify(notify.KindSuccess, "Producto actualizado.")
	} else {
		data = c.store.AddProduct(data)
		c.notify(notify.KindSuccess, "Producto añadido.")
	}
	c.CancelProductEdit()
	return data, nil
}

func (c *Controller) CategoryForm() (CategoryForm, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.categoryForm, c.editingCategory
}

func (c *Controller) SetCategoryForm(f CategoryForm) {
	c.mu.Lock()
	c.categoryForm = f
	c.mu.Unlock()
}

func (c *Controller) EditCategory(id string) error {
	cat, ok := c.store.Category(id)
	if !ok {
		return errors.Wrapf(domain.ErrNotFound, "category %s", id)
	}
	if cat.Protected() {
		return errors.Wrapf(domain.ErrProtectedCategory, "category %s", cat.Name)
	}
	c.mu.Lock()
	c.categoryForm = CategoryForm{Name: cat.Name, Icon: cat.Icon.String()}
	c.editingCategory = id
	c.mu.Unlock()
	return nil
}

func (c *Controller) CancelCategoryEdit() {
	c.mu.Lock()
	c.categoryForm = emptyCategoryForm()
	c.editingCategory = ""
	c.mu.Unlock()
}

func (c *Controller) SubmitCategory() (domain.Category, error) {
	c.mu.Lock()
	form, editing := c.categoryForm, c.editingCategory
	c.mu.Unlock()

	name := strings.TrimSpace(form.Name)
	if name == "" {
		return domain.Category{}, c.reject(invalid("category name is required"), "Por favor, ingresa un nombre de categoría.")
	}
	icon, ok := domain.ParseIcon(form.Icon)
	if !ok || !icon.Selectable() {
		return domain.Category{}, c.reject(invalid("icon "+form.Icon+" is not selectable"), "Selecciona un icono válido.")
	}
	data := domain.Category{Name: name, Icon: icon}

	if editing != "" {
		if err := c.store.UpdateCategory(editing, data); err != nil {
			return domain.Category{}, c.reject(err, categoryMessage(err))
		}
		data.ID = editing
		c.notify(notify.KindSuccess, "Categoría actualizada.")
	} else {
		added, err := c.store.AddCategory(data)
		if err != nil {
			return domain.Category{}, c.reject(err, categoryMessage(err))
		}
		data = added
		c.notify(notify.KindSuccess, "Categoría añadida.")
	}
	c.CancelCategoryEdit()
	return data, nil
}

func categoryMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateName):
		return "Ya existe una categoría con ese nombre."
	case errors.Is(err, domain.ErrProtectedCategory):
		return "No se puede eliminar la categoría de promociones."
	case errors.Is(err, domain.ErrCategoryInUse):
		return "No se puede eliminar. Hay productos en esta categoría."
	case errors.Is(err, domain.ErrNotFound):
		return "La categoría ya no existe."
	default:
		return "No se pudo guardar la categoría."
	}
}

func (c *Controller) BannerForm() (BannerForm, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bannerForm, c.editingBanner
}

func (c *Controller) SetBannerForm(f BannerForm) {
	c.mu.Lock()
	c.bannerForm = f
	c.mu.Unlock()
}

func (c *Controller) EditBanner(id string) error {
	b, ok := c.store.Banner(id)
	if !ok {
		return errors.Wrapf(domain.ErrNotFound, "banner %s", id)
	}
	c.mu.Lock()
	c.bannerForm = BannerForm{
		Title:       b.Title,
		Subtitle:    b.Subtitle,
		ImageUrl:    b.ImageUrl,
		IsPromotion: b.IsPromotion,
		Price:       b.Price,
		Description: b.Description,
	}
	c.editingBanner = id
	c.mu.Unlock()
	return nil
}

func (c *Controller) CancelBannerEdit() {
	c.mu.Lock()
	c.bannerForm = emptyBannerForm()
	c.editingBanner = ""
	c.mu.Unlock()
}

// SubmitBanner saves the banner form. Promotions need a price and a
// description.
func (c *Controller) SubmitBanner() (domain.Banner, error) {
	c.mu.Lock()
	form, editing := c.bannerForm, c.editingBanner
	c.mu.Unlock()

	title := strings.TrimSpace(form.Title)
	if title == "" {
		return domain.Banner{}, c.reject(invalid("banner title is required"), "Por favor, ingresa un título.")
	}
	price := ParsePrice(form.Price)
	if price < 0 {
		return domain.Banner{}, c.reject(invalid("banner price is negative"), "El precio no puede ser negativo.")
	}
	if form.IsPromotion {
		if !hasValue(form.Price) {
			return domain.Banner{}, c.reject(invalid("promotion price is required"), "Las promociones necesitan un precio.")
		}
		if strings.TrimSpace(form.Description) == "" {
			return domain.Banner{}, c.reject(invalid("promotion description is required"), "Las promociones necesitan una descripción.")
		}
	}
	data := domain.Banner{
		Title:       title,
		Subtitle:    form.Subtitle,
		ImageUrl:    form.ImageUrl,
		IsPromotion: form.IsPromotion,
		Price:       price,
		Description: form.Description,
	}

	if editing != "" {
		if !c.store.UpdateBanner(editing, data) {
			return domain.Banner{}, c.reject(errors.Wrapf(domain.ErrNotFound, "banner %s", editing), "El banner ya no existe.")
		}
		data.ID = editing
		c.notify(notify.KindSuccess, "Banner actualizado.")
	} else {
		data = c.store.AddBanner(data)
		c.notify(notify.KindSuccess, "Banner añadido.")
	}
	c.CancelBannerEdit()
	return data, nil
}

func (c *Controller) SettingsForm() domain.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settingsForm
}

func (c *Controller) SetSettingsForm(s domain.Settings) {
	c.mu.Lock()
	c.settingsForm = s
	c.mu.Unlock()
}

// SubmitSettings replaces the business settings with the form. The
// WhatsApp number is stored as digits only.
func (c *Controller) SubmitSettings() (domain.Settings, error) {
	c.mu.Lock()
	form := c.settingsForm
	c.mu.Unlock()

	form.BusinessName = strings.TrimSpace(form.BusinessName)
	form.WhatsappNumber = whatsapp.NormalizePhone(form.WhatsappNumber)
	if form.WhatsappNumber == "" {
		return domain.Settings{}, c.reject(invalid("whatsapp number is required"), "Por favor, ingresa un número de WhatsApp.")
	}
	c.store.ReplaceSettings(form)
	c.SetSettingsForm(form)
	c.notify(notify.KindSuccess, "Ajustes guardados.")
	return form, nil
}
