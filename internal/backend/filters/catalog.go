package filters

import (
	"fmt"

	"github.com/jo-hoe/filterapi/internal/backend/filterstructure"
	"github.com/jo-hoe/filterapi/internal/backend/validation"
)

func init() {
	for _, d := range Catalog() {
		if err := filterstructure.DefaultRegistry.Register(d); err != nil {
			panic(fmt.Sprintf("failed to register %s: %v", d.Name, err))
		}
	}
}

// Catalog returns the filter descriptors in listing order
func Catalog() []filterstructure.Descriptor {
	return []filterstructure.Descriptor{
		{
			Name:        "sobel",
			Family:      filterstructure.FamilyEdges,
			Description: "Detector de bordas Sobel",
			Presets:     [3]filterstructure.Filter{NewSobel(), NewSobel(), NewSobel()},
		},
		{
			Name:        "roberts",
			Family:      filterstructure.FamilyEdges,
			Description: "Detector de bordas Roberts",
			Presets:     [3]filterstructure.Filter{NewRoberts(), NewRoberts(), NewRoberts()},
		},
		{
			Name:              "canny",
			Family:            filterstructure.FamilyEdges,
			Description:       "Detector de bordas Canny",
			CustomDescription: "Detector de bordas Canny com parâmetros customizados",
			Presets: [3]filterstructure.Filter{
				mustFilter(NewCanny(CannyParams{Limiar1: 50, Limiar2: 150, TamanhoAbertura: 3, AplicarBlur: true})),
				mustFilter(NewCanny(CannyParams{Limiar1: 100, Limiar2: 200, TamanhoAbertura: 3, AplicarBlur: true})),
				mustFilter(NewCanny(CannyParams{Limiar1: 150, Limiar2: 250, TamanhoAbertura: 3, AplicarBlur: true})),
			},
			NewCustomParams: func() filterstructure.CustomParams { return DefaultCannyParams() },
		},
		{
			Name:              "gaussiano",
			Family:            filterstructure.FamilyBlur,
			Description:       "Filtro Gaussiano (blur)",
			CustomDescription: "Filtro Gaussiano com parâmetros customizados",
			Presets: [3]filterstructure.Filter{
				gaussianPreset(5), gaussianPreset(15), gaussianPreset(35),
			},
			NewCustomParams: func() filterstructure.CustomParams { return DefaultGaussianParams() },
		},
		{
			Name:              "bilateral",
			Family:            filterstructure.FamilyBlur,
			Description:       "Filtro Bilateral (preserva bordas)",
			CustomDescription: "Filtro Bilateral com parâmetros customizados",
			Presets: [3]filterstructure.Filter{
				mustFilter(NewBilateral(BilateralParams{D: 9, SigmaCor: 25, SigmaEspaco: 25})),
				mustFilter(NewBilateral(BilateralParams{D: 15, SigmaCor: 50, SigmaEspaco: 50})),
				mustFilter(NewBilateral(BilateralParams{D: 25, SigmaCor: 75, SigmaEspaco: 75})),
			},
			NewCustomParams: func() filterstructure.CustomParams { return DefaultBilateralParams() },
		},
		{
			Name:              "media",
			Family:            filterstructure.FamilyBlur,
			Description:       "Filtro de Média (blur uniforme)",
			CustomDescription: "Filtro de Média com parâmetros customizados",
			Presets: [3]filterstructure.Filter{
				mustFilter(NewMean(MeanParams{KernelWidth: 3, KernelHeight: 3})),
				mustFilter(NewMean(MeanParams{KernelWidth: 7, KernelHeight: 7})),
				mustFilter(NewMean(MeanParams{KernelWidth: 15, KernelHeight: 15})),
			},
			NewCustomParams: func() filterstructure.CustomParams { return DefaultMeanParams() },
		},
		{
			Name:              "mediana",
			Family:            filterstructure.FamilyBlur,
			Description:       "Filtro de Mediana (remove ruído sal e pimenta)",
			CustomDescription: "Filtro de Mediana com parâmetros customizados",
			Presets: [3]filterstructure.Filter{
				medianPreset(3), medianPreset(7), medianPreset(15),
			},
			NewCustomParams: func() filterstructure.CustomParams { return DefaultMedianParams() },
		},
	}
}

// preset kernels are rounded up to odd instead of rejected
func gaussianPreset(size int) filterstructure.Filter {
	k := validation.OddOrIncrement(size)
	return mustFilter(NewGaussian(GaussianParams{KernelWidth: k, KernelHeight: k, Sigma: 0}))
}

func medianPreset(size int) filterstructure.Filter {
	return mustFilter(NewMedian(MedianParams{Tamanho: validation.OddOrIncrement(size)}))
}

func mustFilter(f filterstructure.Filter, err error) filterstructure.Filter {
	if err != nil {
		panic(fmt.Sprintf("invalid preset: %v", err))
	}
	return f
}
