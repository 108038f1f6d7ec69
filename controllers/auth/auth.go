package authController

import (
	"errors"
	"log"

	"enrollment/config"
	"enrollment/middleware"
	"enrollment/models"
	authValidator "enrollment/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Controller registers and logs in the staff users who operate the directory.
type Controller struct {
	DB     *gorm.DB
	Config *config.Config
}

func New(db *gorm.DB, cfg *config.Config) *Controller {
	return &Controller{DB: db, Config: cfg}
}

type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

func (ctl *Controller) Register(c *fiber.Ctx) error {
	reqData := c.Locals(authValidator.RegisterKey).(authValidator.RegisterRequest)
	db := ctl.DB.WithContext(c.UserContext())

	// Check if email already exists
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", reqData.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User already exists", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), ctl.Config.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User already exists", nil)
		}
		log.Printf("Error saving user to database: %v", err)
		return err
	}

	return ctl.respondWithToken(c, fiber.StatusCreated, user)
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	reqData := c.Locals(authValidator.LoginKey).(authValidator.LoginRequest)

	var user models.User
	err := ctl.DB.WithContext(c.UserContext()).Where("email = ?", reqData.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password", nil)
	}
	if err != nil {
		return err
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password", nil)
	}

	return ctl.respondWithToken(c, fiber.StatusOK, user)
}

func (ctl *Controller) respondWithToken(c *fiber.Ctx, status int, user models.User) error {
	token, err := middleware.GenerateJWT(ctl.Config.JWTKey, ctl.Config.TokenTTL, user)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return c.Status(status).JSON(authResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
}
