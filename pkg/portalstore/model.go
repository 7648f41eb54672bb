package portalstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/n1protocol/portal/pkg/portal"
)

// DonationDao maps to the 'donations' table. Donations are append-only
// receipts; nothing updates these rows after insert.
type DonationDao struct {
	bun.BaseModel `bun:"table:donations,alias:d"`
	ID            int64     `bun:"id,pk,autoincrement"`
	ReceiptID     string    `bun:"receipt_id,unique,notnull,type:uuid"`
	AmountUSD     string    `bun:"amount_usd,notnull,type:numeric(18,2)"`
	Currency      string    `bun:"currency,notnull,type:varchar(10)"`
	TokenAmount   string    `bun:"token_amount,notnull,type:numeric(38,18)"`
	TokenSymbol   string    `bun:"token_symbol,notnull,type:varchar(10)"`
	ChainID       int64     `bun:"chain_id,notnull"`
	TxHash        string    `bun:"tx_hash,notnull,type:varchar(80)"`
	WalletAddress string    `bun:"wallet_address,notnull,type:varchar(64)"`
	DisplayName   *string   `bun:"display_name,type:varchar(100)"`
	Message       *string   `bun:"message,type:varchar(500)"`
	IsAnonymous   bool      `bun:"is_anonymous,notnull,default:false"`
	ShowOnWall    bool      `bun:"show_on_wall,notnull,default:false"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// LedgerEntryDao maps to the 'ledger_entries' table.
type LedgerEntryDao struct {
	bun.BaseModel    `bun:"table:ledger_entries,alias:le"`
	ID               int64     `bun:"id,pk,autoincrement"`
	Story            string    `bun:"story,notnull,type:text"`
	DisplayName      *string   `bun:"display_name,type:varchar(100)"`
	IsAnonymous      bool      `bun:"is_anonymous,notnull,default:false"`
	BeforeLoved      int       `bun:"before_loved,notnull"`
	BeforeSuicidal   int       `bun:"before_suicidal,notnull"`
	BeforeDepression int       `bun:"before_depression,notnull"`
	BeforeAnxiety    int       `bun:"before_anxiety,notnull"`
	BeforeHope       int       `bun:"before_hope,notnull"`
	BeforeBelonging  int       `bun:"before_belonging,notnull"`
	AfterLoved       int       `bun:"after_loved,notnull"`
	AfterSuicidal    int       `bun:"after_suicidal,notnull"`
	AfterDepression  int       `bun:"after_depression,notnull"`
	AfterAnxiety     int       `bun:"after_anxiety,notnull"`
	AfterHope        int       `bun:"after_hope,notnull"`
	AfterBelonging   int       `bun:"after_belonging,notnull"`
	Status           string    `bun:"status,notnull,type:varchar(16),default:'pending'"`
	Featured         bool      `bun:"featured,notnull,default:false"`
	HeartCount       int64     `bun:"heart_count,notnull,default:0"`
	CreatedAt        time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// PrescriberDao maps to the 'prescribers' table.
type PrescriberDao struct {
	bun.BaseModel `bun:"table:prescribers,alias:p"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Name          string    `bun:"name,notnull,type:varchar(200)"`
	Credentials   *string   `bun:"credentials,type:varchar(200)"`
	Email         string    `bun:"email,notnull,type:varchar(254)"`
	Phone         *string   `bun:"phone,type:varchar(40)"`
	Website       *string   `bun:"website,type:varchar(300)"`
	Practice      *string   `bun:"practice,type:varchar(200)"`
	Address       *string   `bun:"address,type:varchar(300)"`
	City          string    `bun:"city,notnull,type:varchar(100)"`
	State         string    `bun:"state,notnull,type:varchar(100)"`
	Country       string    `bun:"country,notnull,type:varchar(100)"`
	Telemedicine  bool      `bun:"telemedicine,notnull,default:false"`
	Insurance     bool      `bun:"insurance,notnull,default:false"`
	Status        string    `bun:"status,notnull,type:varchar(16),default:'pending'"`
	Verified      bool      `bun:"verified,notnull,default:false"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// FeedbackDao maps to the 'feedback' table.
type FeedbackDao struct {
	bun.BaseModel `bun:"table:feedback,alias:f"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Name          *string   `bun:"name,type:varchar(100)"`
	Email         *string   `bun:"email,type:varchar(254)"`
	Type          string    `bun:"type,notnull,type:varchar(16)"`
	Message       string    `bun:"message,notnull,type:text"`
	Status        string    `bun:"status,notnull,type:varchar(16),default:'unread'"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// TeamApplicationDao maps to the 'team_applications' table.
type TeamApplicationDao struct {
	bun.BaseModel `bun:"table:team_applications,alias:ta"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Name          string    `bun:"name,notnull,type:varchar(100)"`
	Email         string    `bun:"email,notnull,type:varchar(254)"`
	Languages     string    `bun:"languages,notnull,type:varchar(200)"`
	Location      string    `bun:"location,notnull,type:varchar(200)"`
	Message       string    `bun:"message,notnull,type:text"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// EmailSignupDao maps to the 'email_signups' table. Email is unique so
// duplicate signups can be ignored at insert time.
type EmailSignupDao struct {
	bun.BaseModel `bun:"table:email_signups,alias:es"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Email         string    `bun:"email,unique,notnull,type:varchar(254)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func toDonationDao(d *portal.Donation) *DonationDao {
	return &DonationDao{
		ID:            d.ID,
		ReceiptID:     d.ReceiptID,
		AmountUSD:     d.AmountUSD,
		Currency:      d.Currency,
		TokenAmount:   d.TokenAmount,
		TokenSymbol:   d.TokenSymbol,
		ChainID:       d.ChainID,
		TxHash:        d.TxHash,
		WalletAddress: d.WalletAddress,
		DisplayName:   strPtr(d.DisplayName),
		Message:       strPtr(d.Message),
		IsAnonymous:   d.IsAnonymous,
		ShowOnWall:    d.ShowOnWall,
	}
}

func toDonation(dao *DonationDao) *portal.Donation {
	return &portal.Donation{
		ID:            dao.ID,
		ReceiptID:     dao.ReceiptID,
		AmountUSD:     dao.AmountUSD,
		Currency:      dao.Currency,
		TokenAmount:   dao.TokenAmount,
		TokenSymbol:   dao.TokenSymbol,
		ChainID:       dao.ChainID,
		TxHash:        dao.TxHash,
		WalletAddress: dao.WalletAddress,
		DisplayName:   strVal(dao.DisplayName),
		Message:       strVal(dao.Message),
		IsAnonymous:   dao.IsAnonymous,
		ShowOnWall:    dao.ShowOnWall,
		CreatedAt:     dao.CreatedAt,
	}
}

func toLedgerEntryDao(e *portal.LedgerEntry) *LedgerEntryDao {
	return &LedgerEntryDao{
		ID:               e.ID,
		Story:            e.Story,
		DisplayName:      strPtr(e.DisplayName),
		IsAnonymous:      e.IsAnonymous,
		BeforeLoved:      e.Before.Loved,
		BeforeSuicidal:   e.Before.Suicidal,
		BeforeDepression: e.Before.Depression,
		BeforeAnxiety:    e.Before.Anxiety,
		BeforeHope:       e.Before.Hope,
		BeforeBelonging:  e.Before.Belonging,
		AfterLoved:       e.After.Loved,
		AfterSuicidal:    e.After.Suicidal,
		AfterDepression:  e.After.Depression,
		AfterAnxiety:     e.After.Anxiety,
		AfterHope:        e.After.Hope,
		AfterBelonging:   e.After.Belonging,
		Status:           string(e.Status),
		Featured:         e.Featured,
		HeartCount:       e.HeartCount,
	}
}

func toLedgerEntry(dao *LedgerEntryDao) *portal.LedgerEntry {
	return &portal.LedgerEntry{
		ID:          dao.ID,
		Story:       dao.Story,
		DisplayName: strVal(dao.DisplayName),
		IsAnonymous: dao.IsAnonymous,
		Before: portal.ScaleMetrics{
			Loved:      dao.BeforeLoved,
			Suicidal:   dao.BeforeSuicidal,
			Depression: dao.BeforeDepression,
			Anxiety:    dao.BeforeAnxiety,
			Hope:       dao.BeforeHope,
			Belonging:  dao.BeforeBelonging,
		},
		After: portal.ScaleMetrics{
			Loved:      dao.AfterLoved,
			Suicidal:   dao.AfterSuicidal,
			Depression: dao.AfterDepression,
			Anxiety:    dao.AfterAnxiety,
			Hope:       dao.AfterHope,
			Belonging:  dao.AfterBelonging,
		},
		Status:     portal.ModerationStatus(dao.Status),
		Featured:   dao.Featured,
		HeartCount: dao.HeartCount,
		CreatedAt:  dao.CreatedAt,
	}
}

func toPrescriberDao(p *portal.Prescriber) *PrescriberDao {
	return &PrescriberDao{
		ID:           p.ID,
		Name:         p.Name,
		Credentials:  strPtr(p.Credentials),
		Email:        p.Email,
		Phone:        strPtr(p.Phone),
		Website:      strPtr(p.Website),
		Practice:     strPtr(p.Practice),
		Address:      strPtr(p.Address),
		City:         p.City,
		State:        p.State,
		Country:      p.Country,
		Telemedicine: p.Telemedicine,
		Insurance:    p.Insurance,
		Status:       string(p.Status),
		Verified:     p.Verified,
	}
}

func toPrescriber(dao *PrescriberDao) *portal.Prescriber {
	return &portal.Prescriber{
		ID:           dao.ID,
		Name:         dao.Name,
		Credentials:  strVal(dao.Credentials),
		Email:        dao.Email,
		Phone:        strVal(dao.Phone),
		Website:      strVal(dao.Website),
		Practice:     strVal(dao.Practice),
		Address:      strVal(dao.Address),
		City:         dao.City,
		State:        dao.State,
		Country:      dao.Country,
		Telemedicine: dao.Telemedicine,
		Insurance:    dao.Insurance,
		Status:       portal.PrescriberStatus(dao.Status),
		Verified:     dao.Verified,
		CreatedAt:    dao.CreatedAt,
	}
}

func toFeedbackDao(f *portal.Feedback) *FeedbackDao {
	return &FeedbackDao{
		ID:      f.ID,
		Name:    strPtr(f.Name),
		Email:   strPtr(f.Email),
		Type:    string(f.Type),
		Message: f.Message,
		Status:  string(f.Status),
	}
}

func toFeedback(dao *FeedbackDao) *portal.Feedback {
	return &portal.Feedback{
		ID:        dao.ID,
		Name:      strVal(dao.Name),
		Email:     strVal(dao.Email),
		Type:      portal.FeedbackType(dao.Type),
		Message:   dao.Message,
		Status:    portal.FeedbackStatus(dao.Status),
		CreatedAt: dao.CreatedAt,
	}
}

func toTeamApplicationDao(a *portal.TeamApplication) *TeamApplicationDao {
	return &TeamApplicationDao{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Languages: a.Languages,
		Location:  a.Location,
		Message:   a.Message,
	}
}

func toTeamApplication(dao *TeamApplicationDao) *portal.TeamApplication {
	return &portal.TeamApplication{
		ID:        dao.ID,
		Name:      dao.Name,
		Email:     dao.Email,
		Languages: dao.Languages,
		Location:  dao.Location,
		Message:   dao.Message,
		CreatedAt: dao.CreatedAt,
	}
}
