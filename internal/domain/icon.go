package domain

import (
	"encoding/json"
)

// Icon identifies one of the fixed category icons.
type Icon int

const (
	IconDefault Icon = iota
	IconStar
	IconUtensils
	IconCake
	IconCupSoda
	IconPizza
	IconSalad
	IconCoffee
	IconSandwich
	IconHome
)

var iconNames = map[Icon]string{
	IconDefault:  "Default",
	IconStar:     "Star",
	IconUtensils: "Utensils",
	IconCake:     "Cake",
	IconCupSoda:  "CupSoda",
	IconPizza:    "Pizza",
	IconSalad:    "Salad",
	IconCoffee:   "Coffee",
	IconSandwich: "Sandwich",
	IconHome:     "Home",
}

// ParseIcon resolves an icon name. Unknown names map to IconDefault and ok
// is false.
func ParseIcon(name string) (icon Icon, ok bool) {
	switch name {
	case "Star":
		return IconStar, true
	case "Utensils":
		return IconUtensils, true
	case "Cake":
		return IconCake, true
	case "CupSoda":
		return IconCupSoda, true
	case "Pizza":
		return IconPizza, true
	case "Salad":
		return IconSalad, true
	case "Coffee":
		return IconCoffee, true
	case "Sandwich":
		return IconSandwich, true
	case "Home":
		return IconHome, true
	case "Default":
		return IconDefault, true
	default:
		return IconDefault, false
	}
}

func (i Icon) String() string {
	if name, ok := iconNames[i]; ok {
		return name
	}
	return iconNames[IconDefault]
}

// Glyph is the icon actually drawn. Default draws as Utensils.
func (i Icon) Glyph() Icon {
	switch i {
	case IconStar, IconUtensils, IconCake, IconCupSoda, IconPizza,
		IconSalad, IconCoffee, IconSandwich, IconHome:
		return i
	default:
		return IconUtensils
	}
}

// Selectable reports whether admins may assign the icon to a category.
func (i Icon) Selectable() bool {
	return i != IconHome && i != IconDefault && i.Glyph() == i
}

// SelectableIcons lists the icons offered in the category form.
func SelectableIcons() []Icon {
	return []Icon{IconStar, IconUtensils, IconCake, IconCupSoda, IconPizza, IconSalad, IconCoffee, IconSandwich}
}

func (i Icon) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i *Icon) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*i, _ = ParseIcon(name)
	return nil
}
