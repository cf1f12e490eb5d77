package database

import (
	"fmt"
	"log"
	"time"

	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"

	"github.com/shopspring/decimal"
)

func date(s string) *time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func on() *bool {
	v := true
	return &v
}

func offer(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(money(s))
}

// SeedProducts is the demo catalog a fresh terminal starts with.
func SeedProducts() []model.Product {
	return []model.Product{
		{
			SKU:                 "ELEC-001",
			Name:                "Ultra Wireless Mouse",
			Category:            "Electronics",
			Description:         "High-precision wireless mouse with 16,000 DPI sensor and 50 hour battery life.",
			Price:               money("45.99"),
			OfferPrice:          offer("39.99"),
			IsOfferManualActive: on(),
			Cost:                money("20.00"),
			Stock:               15,
			MinStock:            5,
			ImageURL:            "https://picsum.photos/seed/mouse/200",
			BatchNumber:         "BT-2024-X1",
			ExpiryDate:          date("2025-12-31"),
			IsVisibleOnline:     true,
		},
		{
			SKU:             "ELEC-002",
			Name:            "Mechanical Keyboard RGB",
			Category:        "Electronics",
			Description:     "Tenkeyless mechanical keyboard with RGB backlighting and tactile blue switches.",
			Price:           money("129.99"),
			Cost:            money("65.00"),
			Stock:           8,
			MinStock:        3,
			ImageURL:        "https://picsum.photos/seed/keyboard/200",
			BatchNumber:     "BT-2024-K2",
			ExpiryDate:      date("2026-06-15"),
			IsVisibleOnline: true,
		},
		{
			SKU:                 "ACC-001",
			Name:                "USB-C Fast Charger",
			Category:            "Accessories",
			Description:         "Universal 65W USB-C GaN charger for laptops, tablets and phones.",
			Price:               money("24.50"),
			OfferPrice:          offer("19.99"),
			IsOfferManualActive: on(),
			Cost:                money("10.00"),
			Stock:               50,
			MinStock:            10,
			ImageURL:            "https://picsum.photos/seed/charger/200",
			BatchNumber:         "BT-2023-C9",
			ExpiryDate:          date("2025-09-01"),
			IsVisibleOnline:     true,
		},
		{
			SKU:                 "AUDIO-001",
			Name:                "Noise Cancelling Headphones",
			Category:            "Audio",
			Description:         "Over-ear headphones with active noise cancellation and memory foam cushions.",
			Price:               money("299.00"),
			OfferPrice:          offer("249.00"),
			IsOfferManualActive: on(),
			Cost:                money("150.00"),
			Stock:               12,
			MinStock:            4,
			ImageURL:            "https://picsum.photos/seed/headphones/200",
			BatchNumber:         "BT-2024-A5",
			ExpiryDate:          date("2027-01-20"),
			IsVisibleOnline:     true,
		},
		{
			SKU:             "STORAGE-001",
			Name:            "1TB External SSD",
			Category:        "Storage",
			Description:     "Portable SSD with 1050MB/s reads and IP55 water and dust resistance.",
			Price:           money("89.99"),
			Cost:            money("45.00"),
			Stock:           2,
			MinStock:        5,
			ImageURL:        "https://picsum.photos/seed/ssd/200",
			BatchNumber:     "BT-2024-S3",
			ExpiryDate:      date("2026-11-10"),
			IsVisibleOnline: true,
		},
	}
}

func SeedCustomers() []model.Customer {
	return []model.Customer{
		{MembershipID: "MEM-7742", Name: "John Doe", Email: "john@example.com", Phone: "555-0101",
			LoyaltyPoints: 450, TotalSpent: money("1240.50"), JoinDate: *date("2023-01-15"), DiscountLevel: 5},
		{MembershipID: "MEM-9103", Name: "Jane Smith", Email: "jane@example.com", Phone: "555-0102",
			LoyaltyPoints: 120, TotalSpent: money("340.20"), JoinDate: *date("2023-05-20"), DiscountLevel: 0},
	}
}

func SeedUsers() []model.User {
	return []model.User{
		{Name: "Alex Admin", Role: model.RoleAdmin, Email: "admin@ayaatpos.com", Phone: "555-0101", Status: model.StatusActive, JoinDate: date("2023-01-10")},
		{Name: "Sarah Manager", Role: model.RoleManager, Email: "sarah@ayaatpos.com", Phone: "555-0102", Status: model.StatusActive, JoinDate: date("2023-03-15")},
		{Name: "Sam Cashier", Role: model.RoleCashier, Email: "sam@ayaatpos.com", Phone: "555-0103", Status: model.StatusActive, JoinDate: date("2023-06-20")},
		{Name: "Jordan Cashier", Role: model.RoleCashier, Email: "jordan@ayaatpos.com", Phone: "555-0104", Status: model.StatusOnBreak, JoinDate: date("2023-08-05")},
		{Name: "Chris Cashier", Role: model.RoleCashier, Email: "chris@ayaatpos.com", Phone: "555-0105", Status: model.StatusInactive, JoinDate: date("2024-01-12")},
	}
}

func SeedStores() []model.Store {
	return []model.Store{
		{Name: "Dhaka Main Branch", Code: "DHK-01", Address: "Banani, Dhaka", Phone: "01711223344", Status: model.StoreOpen, TerminalCount: 4},
		{Name: "Chittagong Hub", Code: "CTG-01", Address: "GEC Circle, Chittagong", Phone: "01811223344", Status: model.StoreOpen, TerminalCount: 2},
	}
}

// Seed fills empty repositories with the demo data. Every seeded employee
// signs in with password. Tables that already hold rows are left alone.
func Seed(repos *repository.Repositories, now time.Time, password string) error {
	if existing, err := repos.Users.FindAll(); err != nil {
		return err
	} else if len(existing) > 0 {
		log.Println("Seed skipped: users already present")
		return nil
	}

	users := SeedUsers()
	for i := range users {
		if err := users[i].SetPassword(password); err != nil {
			return err
		}
		users[i].CreatedBy = "seed"
		if err := repos.Users.Create(&users[i]); err != nil {
			return fmt.Errorf("seed user %s: %w", users[i].Email, err)
		}
	}

	for _, p := range SeedProducts() {
		p.CreatedBy = "seed"
		if err := repos.Products.Create(&p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.SKU, err)
		}
	}
	for _, c := range SeedCustomers() {
		if err := repos.Customers.Create(&c); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.MembershipID, err)
		}
	}
	for _, st := range SeedStores() {
		if err := repos.Stores.Create(&st); err != nil {
			return fmt.Errorf("seed store %s: %w", st.Code, err)
		}
	}

	// Sam and Jordan are already on the floor; Sarah finished an 8 hour shift yesterday.
	shifts := []struct {
		user    model.User
		started time.Duration
		ended   time.Duration
	}{
		{users[2], 4 * time.Hour, 0},
		{users[3], 6 * time.Hour, 0},
		{users[1], 24 * time.Hour, 16 * time.Hour},
	}
	for _, s := range shifts {
		sh := model.Shift{UserID: s.user.ID, UserName: s.user.Name, StartTime: now.Add(-s.started), Status: model.ShiftOngoing}
		if err := repos.Shifts.ClockIn(&sh); err != nil {
			return fmt.Errorf("seed shift %s: %w", s.user.Name, err)
		}
		if s.ended > 0 {
			end := now.Add(-s.ended)
			sh.EndTime = &end
			sh.Duration = int(end.Sub(sh.StartTime).Minutes())
			sh.Status = model.ShiftCompleted
			if err := repos.Shifts.Update(&sh); err != nil {
				return err
			}
		}
	}

	log.Printf("Seeded %d users, %d products, %d customers, %d stores", len(users), len(SeedProducts()), len(SeedCustomers()), len(SeedStores()))
	return nil
}
