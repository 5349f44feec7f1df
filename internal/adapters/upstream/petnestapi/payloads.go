package petnestapi

import (
	"strings"
	"time"

	"petnest-frontend-core/internal/ports/upstream"
)

// DTOs del wire. El backend histórico mezcla "_id" (mongo) e "id" según
// el endpoint, así que acá se normaliza una sola vez.

type userPayload struct {
	ID       string `json:"id"`
	MongoID  string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"isVerified"`
}

func (p userPayload) toUser() *upstream.User {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = strings.TrimSpace(p.MongoID)
	}
	if id == "" {
		return nil
	}
	return &upstream.User{
		ID:       id,
		Name:     strings.TrimSpace(p.Name),
		Email:    strings.TrimSpace(p.Email),
		Role:     strings.ToLower(strings.TrimSpace(p.Role)),
		Verified: p.Verified,
	}
}

type petPayload struct {
	ID        string `json:"id"`
	MongoID   string `json:"_id"`
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	Sex       string `json:"sex"`
	AgeMonths int    `json:"ageMonths"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"imageUrl"`
	City      string `json:"city"`
	SellerID  string `json:"sellerId"`
}

func (p petPayload) toPet() upstream.Pet {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = strings.TrimSpace(p.MongoID)
	}
	return upstream.Pet{
		ID:        id,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Sex:       p.Sex,
		AgeMonths: p.AgeMonths,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		City:      p.City,
		SellerID:  p.SellerID,
	}
}

func toPets(in []petPayload) []upstream.Pet {
	out := make([]upstream.Pet, 0, len(in))
	for _, p := range in {
		out = append(out, p.toPet())
	}
	return out
}

type adPayload struct {
	ID          string    `json:"id"`
	MongoID     string    `json:"_id"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Tagline     string    `json:"tagline"`
	BrandName   string    `json:"brandName"`
	ImageURL    string    `json:"imageUrl"`
	CTAText     string    `json:"ctaText"`
	RedirectURL string    `json:"redirectUrl"`
	Placement   string    `json:"placement"`
	Device      string    `json:"device"`
	TargetPages []string  `json:"targetPages"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Active      bool      `json:"isActive"`
}

func (p adPayload) toCreative() upstream.AdCreative {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = strings.TrimSpace(p.MongoID)
	}
	return upstream.AdCreative{
		ID:          id,
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		Tagline:     p.Tagline,
		BrandName:   p.BrandName,
		ImageURL:    p.ImageURL,
		CTAText:     p.CTAText,
		RedirectURL: p.RedirectURL,
		Placement:   p.Placement,
		Device:      p.Device,
		TargetPages: p.TargetPages,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Impressions: p.Impressions,
		Clicks:      p.Clicks,
		Active:      p.Active,
	}
}

type adRequestPayload struct {
	ID        string    `json:"id"`
	MongoID   string    `json:"_id"`
	SellerID  string    `json:"sellerId"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason"`
	Creative  adPayload `json:"creative"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p adRequestPayload) toAdRequest() upstream.AdRequest {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = strings.TrimSpace(p.MongoID)
	}
	return upstream.AdRequest{
		ID:        id,
		SellerID:  p.SellerID,
		Status:    strings.ToLower(strings.TrimSpace(p.Status)),
		Reason:    p.Reason,
		Creative:  p.Creative.toCreative(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
