package services

import (
	"udoy/models"

	"gorm.io/gorm"
)

// PoolRemaining sums the undrawn remainder across all sponsor donations
func PoolRemaining(db *gorm.DB) (int, error) {
	var remaining int
	err := db.Model(&models.SponsorDonation{}).
		Select("COALESCE(SUM(remaining), 0)").
		Scan(&remaining).Error
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// WithdrawFromPool draws up to amount credits from sponsor donations, oldest
// donation first. Returns how much was actually consumed, which can be less
// than requested when the pool runs dry. The decrement is guarded so a row
// that lost a concurrent withdrawal is skipped instead of driven negative.
func WithdrawFromPool(tx *gorm.DB, amount int) (int, error) {
	if amount <= 0 {
		return 0, nil
	}

	var donations []models.SponsorDonation
	if err := tx.Where("remaining > 0").Order("created_at asc").Find(&donations).Error; err != nil {
		return 0, err
	}

	needed := amount
	for _, donation := range donations {
		if needed <= 0 {
			break
		}

		consume := donation.Remaining
		if consume > needed {
			consume = needed
		}

		res := tx.Model(&models.SponsorDonation{}).
			Where("id = ? AND remaining >= ?", donation.ID, consume).
			Update("remaining", gorm.Expr("remaining - ?", consume))
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 0 {
			// Drained by a concurrent withdrawal, move on.
			continue
		}

		needed -= consume
	}

	return amount - needed, nil
}

// AwardCredits grants credits to a user and appends the matching ledger
// entry. Completion and coach awards are backed by the sponsor pool: the
// granted amount is capped by whatever WithdrawFromPool could consume.
// Other sources are granted in full. A zero grant leaves the balance and
// the ledger untouched.
func AwardCredits(tx *gorm.DB, user *models.User, amount int, source models.CreditSource, note string) (int, error) {
	if amount <= 0 {
		return 0, nil
	}

	granted := amount
	if source == models.CreditSourceCompletion || source == models.CreditSourceCoach {
		consumed, err := WithdrawFromPool(tx, amount)
		if err != nil {
			return 0, err
		}
		granted = consumed
	}

	if granted == 0 {
		return 0, nil
	}

	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
		Update("credits", gorm.Expr("credits + ?", granted)).Error; err != nil {
		return 0, err
	}

	entry := models.CreditTransaction{
		UserID: &user.ID,
		Amount: granted,
		Source: source,
		Note:   note,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, err
	}

	user.Credits += granted
	return granted, nil
}

// Donate records a sponsor donation together with its pool-level ledger
// entry (no user attached).
func Donate(tx *gorm.DB, sponsor *models.User, amount int, note string) (*models.SponsorDonation, error) {
	donation := models.SponsorDonation{
		SponsorID: sponsor.ID,
		Amount:    amount,
		Remaining: amount,
	}
	if err := tx.Create(&donation).Error; err != nil {
		return nil, err
	}

	entry := models.CreditTransaction{
		Amount: amount,
		Source: models.CreditSourceSponsor,
		Note:   note,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	return &donation, nil
}
