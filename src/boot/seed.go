package boot

import (
	"log"
	"os"
	"time"

	"descubre/src/db"
	"descubre/src/models"
	"descubre/src/types"
	"descubre/src/utils"

	"gorm.io/gorm"
)

func uintPtr(v uint) *uint { return &v }

// SeedData loads the demo catalog when SEED_DATA is set and the events
// table is still empty.
func SeedData() {
	if os.Getenv("SEED_DATA") != "true" {
		return
	}
	db := db.GetDb()
	var count int64
	if err := db.Model(&models.Event{}).Count(&count).Error; err != nil {
		log.Printf("Error checking for existing events: %s\n", err.Error())
		return
	}
	if count > 0 {
		return
	}

	categories := []models.Category{
		{ID: "music", Name: "Conciertos", Icon: "music", Color: "#FF6B6B"},
		{ID: "food", Name: "Gastronomía", Icon: "utensils", Color: "#FFD93D"},
		{ID: "adventure", Name: "Excursiones", Icon: "compass", Color: "#4ECDC4"},
		{ID: "culture", Name: "Cultura", Icon: "theater", Color: "#A8E6CF"},
		{ID: "sports", Name: "Deportes", Icon: "trophy", Color: "#FF8B94"},
	}

	now := time.Now()
	events := []models.Event{
		{
			Title:       "Concierto de Juan Luis Guerra",
			Description: "El legendario artista dominicano presenta sus mayores éxitos en una noche inolvidable bajo las estrellas del Malecón de Santo Domingo.",
			CategoryID:  "music",
			Location:    "Malecón de Santo Domingo",
			Latitude:    18.4697,
			Longitude:   -69.8923,
			Date:        now.Add(7 * 24 * time.Hour),
			ImageURL:    "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=800&h=600&fit=crop",
			Price:       2500,
			Highlights:  &types.JSONBArray{"Más de 20 éxitos musicales", "Escenario frente al mar Caribe", "Artistas invitados especiales", "Ambiente familiar y seguro"},
			Spots:       1000,
		},
		{
			Title:       "Festival Gastronómico del Cibao",
			Description: "Descubre los sabores auténticos de la región del Cibao con más de 50 puestos de comida tradicional dominicana.",
			CategoryID:  "food",
			Location:    "Santiago de los Caballeros",
			Latitude:    19.4517,
			Longitude:   -70.6970,
			Date:        now.Add(14 * 24 * time.Hour),
			ImageURL:    "https://images.unsplash.com/photo-1555939594-58d7cb561ad1?w=800&h=600&fit=crop",
			Price:       0,
			Highlights:  &types.JSONBArray{"Comida típica dominicana", "Música en vivo", "Zona infantil", "Entrada gratuita"},
			Spots:       500,
		},
		{
			Title:       "Excursión al Pico Duarte",
			Description: "Conquista la montaña más alta del Caribe en esta aventura de 3 días con guías expertos y equipo completo.",
			CategoryID:  "adventure",
			Location:    "Parque Nacional José Armando Bermúdez",
			Latitude:    19.0333,
			Longitude:   -71.0167,
			Date:        now.Add(21 * 24 * time.Hour),
			ImageURL:    "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&h=600&fit=crop",
			Price:       8500,
			Highlights:  &types.JSONBArray{"Guías certificados", "Equipo de camping incluido", "Vistas panorámicas", "Dificultad media-alta"},
			Spots:       20,
		},
		{
			Title:       "Noche de Jazz en la Zona Colonial",
			Description: "Músicos locales e internacionales presentan lo mejor del jazz contemporáneo en el corazón histórico de Santo Domingo.",
			CategoryID:  "music",
			Location:    "Plaza España, Zona Colonial",
			Latitude:    18.4733,
			Longitude:   -69.8839,
			Date:        now.Add(3 * 24 * time.Hour),
			ImageURL:    "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=800&h=600&fit=crop",
			Price:       1500,
			Highlights:  &types.JSONBArray{"Jazz fusión latino", "Ambiente íntimo", "Cócteles artesanales", "Entrada limitada"},
			Spots:       150,
		},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, c := range categories {
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
		}
		for i := range events {
			events[i].Slug = utils.EventSlug(events[i].Title)
			if err := tx.Create(&events[i]).Error; err != nil {
				return err
			}
			general := models.TicketType{
				EventID:  events[i].ID,
				Name:     "General",
				Price:    events[i].Price,
				Quantity: events[i].Spots * 7 / 10,
				Active:   true,
			}
			vipDesc := "Acceso preferencial y zona exclusiva"
			vip := models.TicketType{
				EventID:     events[i].ID,
				Name:        "VIP",
				Description: &vipDesc,
				Price:       events[i].Price * 2,
				MaxQuantity: uintPtr(4),
				Quantity:    events[i].Spots * 3 / 10,
				Active:      true,
			}
			if err := tx.Create(&general).Error; err != nil {
				return err
			}
			// Free events only get the general tier.
			if events[i].Price > 0 {
				if err := tx.Create(&vip).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error seeding demo data: %s\n", err.Error())
		return
	}
	log.Printf("Seeded %d categories and %d events\n", len(categories), len(events))
}
