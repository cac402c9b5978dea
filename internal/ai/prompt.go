package ai

import (
	"fmt"
	"strings"

	"evdeger/server/internal/models"
)

// buildPrompt renders the appraisal request in the corpus language with the
// comparable prices inline, instructing the model to answer with a bare JSON
// object.
func buildPrompt(req models.ValuationRequest, comparables []models.Listing) string {
	var comps strings.Builder
	for _, listing := range comparables {
		fmt.Fprintf(&comps, "- %.0f TL: %s/%s, %.0fm², %s, %s\n",
			listing.Price,
			listing.District,
			listing.Neighborhood,
			listing.NetSqm,
			listing.RoomCount,
			listing.BuildingAge,
		)
	}

	grossSqm := "-"
	if req.GrossSqm != nil {
		grossSqm = fmt.Sprintf("%.0f", *req.GrossSqm)
	}
	totalFloors := "-"
	if req.TotalFloors != nil {
		totalFloors = fmt.Sprintf("%d", *req.TotalFloors)
	}

	return fmt.Sprintf(`Sen bir emlak değerleme uzmanısın. Aşağıdaki özelliklere sahip bir evin değerini tahmin etmen gerekiyor.

Değerlendirilecek Ev Özellikleri:
- İl: %s
- İlçe: %s
- Mahalle: %s
- Emlak Tipi: %s
- Net Alan: %.0f m²
- Brüt Alan: %s m²
- Oda Sayısı: %s
- Bina Yaşı: %s
- Kat: %s
- Toplam Kat: %s
- Isıtma: %s

Benzer Evlerin Fiyatları:
%s
Lütfen aşağıdaki bilgileri JSON formatında döndür:
{
  "estimatedPrice": [tahmini fiyat, TL cinsinden, sadece sayı],
  "priceRange": {
    "min": [minimum fiyat tahmini, TL cinsinden, sadece sayı],
    "max": [maksimum fiyat tahmini, TL cinsinden, sadece sayı]
  },
  "confidenceLevel": [güven seviyesi, 0-100 arası bir sayı],
  "explanation": [değerlendirme açıklaması, fiyatı etkileyen faktörler]
}

Sadece JSON formatında yanıt ver, başka açıklama ekleme. Yanıtında üç tırnak veya "json" kelimesi kullanma, doğrudan JSON objesi döndür.`,
		req.Province,
		req.District,
		req.Neighborhood,
		req.PropertyType,
		req.NetSqm,
		grossSqm,
		req.RoomCount,
		req.BuildingAge,
		req.FloorLocation,
		totalFloors,
		req.HeatingType,
		comps.String(),
	)
}
