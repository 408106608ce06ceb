package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"descubre/src/db"
	"descubre/src/lib"
	"descubre/src/models"
	"descubre/src/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RateLimitErrorSubstring marks a throttled signup; the checkout core maps
// it to a rate-limit-specific user message.
const RateLimitErrorSubstring = "over_email_send_rate_limit"

const signupThrottleWindow = 46 * time.Second

// DBIdentityService finds or creates the user for a booking attempt. New
// accounts get a random generated credential; creation is throttled per
// email address.
type DBIdentityService struct{}

func (DBIdentityService) Provision(ctx context.Context, name, email string) (*Identity, error) {
	db := db.GetDb()
	var user models.User
	err := db.WithContext(ctx).Where(&models.User{Email: email}).First(&user).Error
	created := false
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if rd := lib.GetRedisClient(); rd != nil {
			key := fmt.Sprintf("signup:%s", email)
			ok, rerr := rd.SetNX(ctx, key, 1, signupThrottleWindow).Result()
			if rerr == nil && !ok {
				return nil, errors.New(RateLimitErrorSubstring)
			}
		}
		password := utils.RandomPassword(12)
		hash, herr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if herr != nil {
			return nil, herr
		}
		user = models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Generated:    true,
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
		created = true
	} else if err != nil {
		return nil, err
	}

	token, err := utils.IssueToken(&user)
	if err != nil {
		// An identity without a session token is still usable for booking.
		log.Printf("Error issuing token for user %d: %s\n", user.ID, err.Error())
		token = ""
	}
	return &Identity{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Token:   token,
		Created: created,
	}, nil
}
