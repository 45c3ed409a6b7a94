package domain

// Gender — пол, по которому секционируется глобальный индекс.
type Gender string

const (
	GenderMen   Gender = "men"
	GenderWomen Gender = "women"
)

// Category — категория одежды в глобальном индексе.
// Для верха формальность закодирована прямо в категории.
type Category string

const (
	CategoryTopFormal Category = "top_formal"
	CategoryTopCasual Category = "top_casual"
	CategoryPants     Category = "pants"
	CategoryJacket    Category = "jacket"
	CategoryDress     Category = "dress"
	CategorySkirt     Category = "skirt"
	CategoryShorts    Category = "shorts"
	CategorySuit      Category = "suit"
)

// BaseCategory — категория без разделения на formal/casual.
// Именно такие метки возвращает классификатор и хранит пользовательский гардероб.
type BaseCategory string

const (
	BaseTop    BaseCategory = "top"
	BasePants  BaseCategory = "pants"
	BaseJacket BaseCategory = "jacket"
	BaseDress  BaseCategory = "dress"
	BaseSkirt  BaseCategory = "skirt"
	BaseShorts BaseCategory = "shorts"
	BaseSuit   BaseCategory = "suit"
)

var validGenders = map[Gender]struct{}{
	GenderMen:   {},
	GenderWomen: {},
}

var validBaseCategories = map[BaseCategory]struct{}{
	BaseTop:    {},
	BasePants:  {},
	BaseJacket: {},
	BaseDress:  {},
	BaseSkirt:  {},
	BaseShorts: {},
	BaseSuit:   {},
}

// completionRules — таблица дополнения образа: какой категории не хватает
// к загруженной вещи.
var completionRules = map[BaseCategory]BaseCategory{
	BaseTop:    BasePants,
	BasePants:  BaseTop,
	BaseJacket: BaseTop,
	BaseDress:  BaseJacket,
}

// ComplementaryCategory возвращает категорию, дополняющую загруженную.
// Для категорий без правила возвращает ok == false, это не ошибка.
func ComplementaryCategory(uploaded BaseCategory) (BaseCategory, bool) {
	missing, ok := completionRules[uploaded]
	return missing, ok
}

// ResolveFormality уточняет базовую категорию до индексной.
// Верх специализируется по поводу: офис и формальные события требуют top_formal.
func ResolveFormality(base BaseCategory, occasion Occasion) Category {
	if base == BaseTop {
		if occasion == OccasionOffice || occasion == OccasionFormal {
			return CategoryTopFormal
		}
		return CategoryTopCasual
	}

	return Category(base)
}

// ValidGender сообщает, входит ли значение в закрытое множество полов.
func ValidGender(g Gender) bool {
	_, ok := validGenders[g]
	return ok
}

// ValidBaseCategory сообщает, входит ли значение в закрытое множество категорий.
func ValidBaseCategory(c BaseCategory) bool {
	_, ok := validBaseCategories[c]
	return ok
}
