package store

import (
	"database/sql"
	"time"
)

// User is a storefront visitor. Rows are created on first contact and never deleted.
type User struct {
	ID           int64          `db:"user_id"`
	DisplayName  sql.NullString `db:"username"`
	RegisteredAt time.Time      `db:"reg_date"`
	Purchases    int            `db:"purchases"`
}

// UserInfo is the cabinet projection of a user.
type UserInfo struct {
	RegisteredAt time.Time `db:"reg_date"`
	Purchases    int       `db:"purchases"`
}

// Offering is a purchasable catalog entry.
type Offering struct {
	ID             int64  `db:"id"`
	Name           string `db:"name"`
	Description    string `db:"desc"`
	Price          string `db:"price"`
	ContactMessage string `db:"msg"`
}

// OfferingInput carries the fields of a new offering.
type OfferingInput struct {
	Name           string
	Description    string
	Price          string
	ContactMessage string
}

// DefaultOfferings seeds an empty catalog.
var DefaultOfferings = []OfferingInput{
	{"🇺🇸 США", "SOCKS5 IPv4 🚀 | 1 Месяц", "39₽", "за покупкой 🇺🇸 SOCKS5 IPv4"},
	{"🇩🇪 Германия", "SOCKS5 IPv4 🚀 | 1 Месяц", "36₽", "за покупкой 🇩🇪 SOCKS5 IPv4"},
	{"🇬🇧 Великобритания", "SOCKS5 IPv4 🚀 | 1 Месяц", "36₽", "за покупкой 🇬🇧 SOCKS5 IPv4"},
	{"🇳🇱 Нидерланды", "SOCKS5 IPv4 🚀 | 1 Месяц", "36₽", "за покупкой 🇳🇱 SOCKS5 IPv4"},
	{"🇵🇱 Польша", "SOCKS5 IPv4 🚀 | 1 Месяц", "36₽", "за покупкой 🇵🇱 SOCKS5 IPv4"},
	{"🇰🇿 Казахстан", "SOCKS5 IPv4 🚀 | 1 Месяц", "30₽", "за покупкой 🇰🇿 SOCKS5 IPv4"},
}
