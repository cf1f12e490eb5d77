package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/clock"
	"ayaat-pos/internal/model"
	"ayaat-pos/internal/repository"
	"ayaat-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrMembershipExists = errors.New("membership code already in use")

type CustomerInput struct {
	MembershipID  string `json:"membership_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	JoinDate      string `json:"join_date"` // YYYY-MM-DD, defaults to today
	DiscountLevel *int   `json:"discount_level"`
}

// CustomerDetail is a member with their receipts, newest first.
type CustomerDetail struct {
	model.Customer
	Purchases []model.Sale `json:"purchases"`
}

type CustomerService interface {
	Create(actor Actor, in *CustomerInput) (*model.Customer, error)
	Update(actor Actor, id uuid.UUID, in *CustomerInput) (*model.Customer, error)
	List(search string) ([]model.Customer, error)
	Get(id uuid.UUID) (*CustomerDetail, error)
	GetByMembershipID(code string) (*model.Customer, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	settingsRepo repository.SettingsRepository
	policy       *authz.Policy
	hub          ws.Publisher
	clock        clock.Clock
}

func NewCustomerService(repos *repository.Repositories, policy *authz.Policy, hub ws.Publisher, clk clock.Clock) CustomerService {
	return &customerService{
		customerRepo: repos.Customers,
		saleRepo:     repos.Sales,
		settingsRepo: repos.Settings,
		policy:       policy,
		hub:          hub,
		clock:        clk,
	}
}

const membershipAttempts = 20

func (s *customerService) newMembershipID() (string, error) {
	for i := 0; i < membershipAttempts; i++ {
		code := fmt.Sprintf("MEM-%d", 10000+rand.IntN(90000))
		if _, err := s.customerRepo.FindByMembershipID(code); errors.Is(err, repository.ErrNotFound) {
			return code, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", ErrMembershipExists
}

func (s *customerService) Create(actor Actor, in *CustomerInput) (*model.Customer, error) {
	if err := s.policy.Require(actor.Role, authz.CustomerCreate); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.StoreSettings()
	if err != nil {
		return nil, err
	}
	discount := settings.LoyaltyDiscount
	if in.DiscountLevel != nil && s.policy.Can(actor.Role, authz.CustomerEditDiscount) {
		discount = *in.DiscountLevel
	}

	join := s.clock.Now()
	if d, err := parseDate(in.JoinDate); err != nil {
		return nil, err
	} else if d != nil {
		join = *d
	}

	c := &model.Customer{
		MembershipID:  strings.TrimSpace(in.MembershipID),
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.TrimSpace(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		TotalSpent:    decimal.Zero,
		JoinDate:      join,
		DiscountLevel: discount,
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	if c.MembershipID == "" {
		if c.MembershipID, err = s.newMembershipID(); err != nil {
			return nil, err
		}
	}

	c.CreatedBy = actor.ID.String()
	c.UpdatedBy = actor.ID.String()
	if err := s.customerRepo.Create(c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrMembershipExists
		}
		return nil, err
	}

	s.hub.Publish(ws.Event{
		Type:    ws.TypeCustomer,
		Action:  "customer_created",
		Data:    map[string]interface{}{"id": c.ID, "membership_id": c.MembershipID, "name": c.Name},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s registered %s", actor.Name, c.Name),
	})
	return c, nil
}

func (s *customerService) Update(actor Actor, id uuid.UUID, in *CustomerInput) (*model.Customer, error) {
	if err := s.policy.Require(actor.Role, authz.CustomerUpdate); err != nil {
		return nil, err
	}
	c, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = strings.TrimSpace(in.Phone)
	if code := strings.TrimSpace(in.MembershipID); code != "" {
		c.MembershipID = code
	}
	if d, err := parseDate(in.JoinDate); err != nil {
		return nil, err
	} else if d != nil {
		c.JoinDate = *d
	}
	if in.DiscountLevel != nil {
		if !s.policy.Can(actor.Role, authz.CustomerEditDiscount) {
			return nil, ErrForbidden
		}
		c.DiscountLevel = *in.DiscountLevel
	}
	if err := validate(c); err != nil {
		return nil, err
	}

	c.UpdatedBy = actor.ID.String()
	if err := s.customerRepo.Update(c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrMembershipExists
		}
		return nil, err
	}
	return c, nil
}

func (s *customerService) List(search string) ([]model.Customer, error) {
	return s.customerRepo.FindAll(search)
}

func (s *customerService) Get(id uuid.UUID) (*CustomerDetail, error) {
	c, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	sales, err := s.saleRepo.FindAll(repository.SaleFilter{CustomerID: &c.ID})
	if err != nil {
		return nil, err
	}
	return &CustomerDetail{Customer: *c, Purchases: sales}, nil
}

func (s *customerService) GetByMembershipID(code string) (*model.Customer, error) {
	c, err := s.customerRepo.FindByMembershipID(strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return c, nil
}
