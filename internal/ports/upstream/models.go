package upstream

import "time"

// Roles tal como los entrega el backend PetNest.
// Wishlist es concepto de buyer; seller/admin nunca la sincronizan.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User es la identidad de sesión. El backend histórico devuelve el id
// como "_id" o "id" según el endpoint; los adapters lo normalizan.
type User struct {
	ID       string
	Name     string
	Email    string
	Role     string
	Verified bool
}

// LoginResult cubre los dos desenlaces de un login:
// credenciales completas, o pendiente de verificación OTP.
type LoginResult struct {
	OTPPending bool
	Message    string

	User  *User
	Token string
}

// Pet es un listing del marketplace (solo lectura en esta capa).
type Pet struct {
	ID        string
	Name      string
	Species   string
	Breed     string
	Sex       string
	AgeMonths int
	Price     int64 // centavos
	ImageURL  string
	City      string
	SellerID  string
}

// AdCreative es un aviso aprobado. Server-owned: el cliente solo lo lee
// y reporta impresión/click fire-and-forget. La elegibilidad
// (placement + device + activo + ventana de fechas) la filtra el server.
type AdCreative struct {
	ID          string
	Title       string
	Subtitle    string
	Tagline     string
	BrandName   string
	ImageURL    string
	CTAText     string
	RedirectURL string
	Placement   string
	Device      string // mobile | desktop | both
	TargetPages []string
	StartDate   time.Time
	EndDate     time.Time
	Impressions int64
	Clicks      int64
	Active      bool
}

// FeedItem mezcla pets y ads en el feed paginado.
type FeedItem struct {
	Kind string // "pet" | "ad"
	Pet  *Pet
	Ad   *AdCreative
}

type FeedPage struct {
	Page    int
	Limit   int
	Items   []FeedItem
	HasMore bool
}

// Estados de una solicitud de publicidad en moderación.
const (
	AdStatusPending  = "pending"
	AdStatusApproved = "approved"
	AdStatusRejected = "rejected"
	AdStatusInactive = "inactive"
)

// AdRequest es una solicitud de aviso de un seller, moderada por admin.
type AdRequest struct {
	ID       string
	SellerID string
	Status   string
	Reason   string

	Creative AdCreative

	CreatedAt time.Time
	UpdatedAt time.Time
}
