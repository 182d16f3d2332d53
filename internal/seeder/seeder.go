package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/karloscodes/cartridge"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cyberdock/internal/sales"
	"cyberdock/internal/store"
)

const batchSize = 200

// Seeder fills the local database with demo sales for development.
type Seeder struct {
	DBManager cartridge.DBManager
	Logger    *slog.Logger
	SaleCount int
	// Days spreads the generated sales over the last N days.
	Days int
	Now  func() time.Time

	rng *rand.Rand
}

// NewSeeder creates a new seeder instance
func NewSeeder(dbManager cartridge.DBManager, logger *slog.Logger, saleCount int) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		DBManager: dbManager,
		Logger:    logger,
		SaleCount: saleCount,
		Days:      60,
		Now:       time.Now,
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 42)),
	}
}

// WithSeed makes the generated data reproducible.
func (s *Seeder) WithSeed(seed uint64) *Seeder {
	s.rng = rand.New(rand.NewPCG(seed, 42))
	return s
}

type demoAccount struct {
	id       string
	nickname string
	weight   int
}

type demoItem struct {
	title    string
	sku      string
	level1   string
	level2   string
	price    float64
	unitCost float64
	kitSize  float64
}

var demoAccounts = []demoAccount{
	{id: "184736201", nickname: "CYBERDOCK OFICIAL", weight: 5},
	{id: "273619845", nickname: "CYBER OUTLET", weight: 3},
	{id: "398172634", nickname: "DOCK PRIME", weight: 2},
}

var demoItems = []demoItem{
	{title: "Jogo de Panelas Antiaderente 5 Peças", sku: "PAN-005", level1: "Casa", level2: "Cozinha", price: 289.90, unitCost: 120, kitSize: 1},
	{title: "Kit 3 Potes Herméticos", sku: "POT-K3", level1: "Casa", level2: "Cozinha", price: 59.90, unitCost: 8.5, kitSize: 3},
	{title: "Organizador de Gavetas", sku: "ORG-010", level1: "Casa", level2: "Organização", price: 39.90, unitCost: 11, kitSize: 1},
	{title: "Fone Bluetooth Sem Fio", sku: "FON-BT1", level1: "Eletrônicos", level2: "Áudio", price: 149.00, unitCost: 55, kitSize: 1},
	{title: "Cabo USB-C Kit 2 Unidades", sku: "CAB-C2", level1: "Eletrônicos", level2: "Acessórios", price: 35.90, unitCost: 6, kitSize: 2},
	{title: "Garrafa Térmica 1L", sku: "GAR-1L", level1: "Esporte", level2: "Hidratação", price: 79.90, unitCost: 28, kitSize: 1},
	{title: "Tapete de Yoga", sku: "YOG-TP", level1: "Esporte", level2: "Fitness", price: 99.90, unitCost: 40, kitSize: 1},
}

var demoStatuses = []string{"paid", "paid", "paid", "paid", "paid", "paid", "cancelled", "pending"}

var demoLogistics = []string{"fulfillment", "fulfillment", "cross_docking", "xd_drop_off", "self_service"}

var demoReceivers = []string{"Ana Souza", "Bruno Lima", "Carla Mendes", "Diego Rocha", "Elisa Prado", "Fábio Nunes"}

// SeedSales inserts accounts and SaleCount random sales.
func (s *Seeder) SeedSales(ctx context.Context) error {
	start := time.Now()
	s.Logger.Info("Seeding sales...", slog.Int("saleCount", s.SaleCount), slog.Int("days", s.Days))

	db := s.DBManager.GetConnection()
	if db == nil {
		return gorm.ErrInvalidDB
	}
	db = db.WithContext(ctx)

	if err := s.seedAccounts(db); err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}

	records := lo.Times(s.SaleCount, func(int) store.SaleRecord {
		return store.FromSale(s.randomSale())
	})
	if len(records) > 0 {
		if err := db.CreateInBatches(records, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert sales: %w", err)
		}
	}

	s.Logger.Info("Seeding completed successfully",
		slog.Int("sales", len(records)),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *Seeder) seedAccounts(db *gorm.DB) error {
	tokens := lo.Map(demoAccounts, func(a demoAccount, _ int) store.UserToken {
		return store.UserToken{MLUserID: a.id, Nickname: a.nickname}
	})
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ml_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"nickname"}),
	}).Create(&tokens).Error
}

func (s *Seeder) pickAccount() demoAccount {
	total := lo.SumBy(demoAccounts, func(a demoAccount) int { return a.weight })
	n := s.rng.IntN(total)
	for _, a := range demoAccounts {
		if n < a.weight {
			return a
		}
		n -= a.weight
	}
	return demoAccounts[0]
}

// randomHour leans toward business hours.
func (s *Seeder) randomHour() int {
	if s.rng.IntN(4) == 0 {
		return s.rng.IntN(24)
	}
	return 9 + s.rng.IntN(13)
}

func (s *Seeder) randomSale() sales.Sale {
	now := s.Now()
	account := s.pickAccount()
	item := demoItems[s.rng.IntN(len(demoItems))]

	day := now.AddDate(0, 0, -s.rng.IntN(max(s.Days, 1)))
	at := time.Date(day.Year(), day.Month(), day.Day(), s.randomHour(), s.rng.IntN(60), s.rng.IntN(60), 0, now.Location())
	if at.After(now) {
		at = now
	}

	quantity := float64(1 + s.rng.IntN(3))
	total := item.price * quantity
	fee := total * (0.11 + s.rng.Float64()*0.06)
	freight := -(10 + s.rng.Float64()*25)
	deadline := at.AddDate(0, 0, 1+s.rng.IntN(3))
	status := demoStatuses[s.rng.IntN(len(demoStatuses))]

	sale := sales.Sale{
		OrderID:              uuid.NewString(),
		DateAdjusted:         &at,
		AccountID:            account.id,
		Nickname:             account.nickname,
		ItemID:               fmt.Sprintf("MLB%09d", s.rng.IntN(1_000_000_000)),
		ItemTitle:            item.title,
		SellerSKU:            sales.Ptr(item.sku),
		Status:               status,
		StatusLabel:          sales.StatusLabel(status),
		Quantity:             sales.Ptr(quantity),
		QuantitySKU:          sales.Ptr(item.kitSize),
		UnitPrice:            item.price,
		TotalAmount:          total,
		UnitCost:             sales.Ptr(item.unitCost),
		MarketplaceFee:       sales.Ptr(fee),
		FreightAdjust:        sales.Ptr(freight),
		Level1:               sales.Ptr(item.level1),
		Level2:               sales.Ptr(item.level2),
		ShipmentLogisticType: demoLogistics[s.rng.IntN(len(demoLogistics))],
		ShipmentDeliverySLA:  &deadline,
		ShipmentStatus:       "ready_to_ship",
		ShipmentReceiverName: demoReceivers[s.rng.IntN(len(demoReceivers))],
	}
	// Some rows arrive before cost data is filled in.
	if s.rng.IntN(10) == 0 {
		sale.UnitCost = nil
	}
	return sale
}
