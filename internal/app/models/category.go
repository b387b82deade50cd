package models

type Category string

const (
	CategoryProcedure  Category = "procedimento"
	CategoryMedication Category = "medicamento"
	CategoryMaterial   Category = "material"
	CategoryFee        Category = "taxa"
)

var AllCategories = []Category{
	CategoryProcedure,
	CategoryMedication,
	CategoryMaterial,
	CategoryFee,
}
