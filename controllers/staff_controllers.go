package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StaffController struct {
	DB *gorm.DB
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db}
}

type staffResponse struct {
	StaffID  string `json:"staffId"`
	CasinoID string `json:"casinoId"`
	Role     string `json:"role"`
}

// Register bootstraps a new casino with its first admin.
func (sc *StaffController) Register(c *gin.Context) {
	var req struct {
		CasinoName string `json:"casinoName" binding:"required,max=255"`
		Name       string `json:"name" binding:"required,max=255"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required,min=8,max=72"`
	}
	if !bindJSON(c, &req) {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	casino := models.Casino{Name: req.CasinoName}
	staff := models.Staff{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&casino).Error; err != nil {
			return err
		}
		staff.CasinoID = casino.ID
		return tx.Create(&staff).Error
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.InfoLogger.Printf("New casino registered: %s (admin=%s)", casino.Name, staff.Email)
	utils.RespondJSON(c, http.StatusCreated, staffResponse{StaffID: staff.ID, CasinoID: casino.ID, Role: staff.Role})
}

// CreateStaff adds a staff member to the caller's casino.
func (sc *StaffController) CreateStaff(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=255"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8,max=72"`
		Role     string `json:"role" binding:"required,oneof=admin pit_boss cashier dealer compliance"`
	}
	if !bindJSON(c, &req) {
		return
	}
	actor, _ := utils.ActorFrom(c.Request.Context())

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	staff := models.Staff{
		CasinoID: actor.CasinoID,
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Role:     req.Role,
	}
	if err := sc.DB.Create(&staff).Error; err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.InfoLogger.Printf("Staff %s added to casino %s (role=%s)", staff.Email, staff.CasinoID, staff.Role)
	utils.RespondJSON(c, http.StatusCreated, staffResponse{StaffID: staff.ID, CasinoID: staff.CasinoID, Role: staff.Role})
}

// Login returns a bearer token.
func (sc *StaffController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	invalid := utils.NewAppError(utils.CodeUnauthorized, "invalid credentials")

	var staff models.Staff
	if err := sc.DB.Where("email = ?", strings.ToLower(input.Email)).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, invalid)
			return
		}
		utils.RespondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, invalid)
		return
	}

	token, err := utils.GenerateToken(staff.ID, staff.CasinoID, staff.Role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for staff: %s, role: %s", staff.Email, staff.Role)
	utils.RespondJSON(c, http.StatusOK, gin.H{
		"token":    token,
		"role":     staff.Role,
		"casinoId": staff.CasinoID,
	})
}

// Logout revokes the caller's token.
func (sc *StaffController) Logout(c *gin.Context) {
	utils.BlacklistToken(c.GetString("token"))
	utils.RespondJSON(c, http.StatusOK, gin.H{"loggedOut": true})
}

// GetProfile returns the authenticated staff member.
func (sc *StaffController) GetProfile(c *gin.Context) {
	actor, _ := utils.ActorFrom(c.Request.Context())

	var staff models.Staff
	if err := sc.DB.Where("casino_id = ?", actor.CasinoID).First(&staff, "id = ?", actor.StaffID).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, staff)
}
