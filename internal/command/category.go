package command

// Category groups commands in help output.
type Category int

const (
	CategoryUncategorized Category = iota
	CategoryGeneral                // help, version, who
	CategorySocial                 // duels, rolls, broadcasts
	CategoryModeration             // duty, cooldown resets
	CategoryAdmin                  // permission management
)

func (c Category) String() string {
	switch c {
	case CategoryGeneral:
		return "general"
	case CategorySocial:
		return "play with others"
	case CategoryModeration:
		return "moderation"
	case CategoryAdmin:
		return "administration"
	default:
		return "other commands"
	}
}

var categoryOrder = []Category{
	CategoryGeneral,
	CategorySocial,
	CategoryModeration,
	CategoryAdmin,
	CategoryUncategorized,
}

// CategoryOrder returns the display order for categories.
func CategoryOrder() []Category {
	return categoryOrder
}
