package controllers

import (
	"errors"

	"github.com/loomline/catalog_end/models"
	"github.com/loomline/catalog_end/repository"
	"github.com/loomline/catalog_end/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Login verifies staff credentials and issues a token.
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("email and password are required"))
		return
	}

	collection := repository.Collection(repository.UsersCollection)

	var user models.User
	err := collection.FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.HandleError(c, utils.CreateUnauthorizedError())
			return
		}
		utils.LogError(err, map[string]interface{}{"email": req.Email}, "login lookup failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	if user.Status != models.UserStatusActive {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.LogError(err, map[string]interface{}{"userId": user.ID.Hex()}, "token generation failed")
		utils.HandleError(c, utils.CreateInternalError())
		return
	}

	utils.Logger.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("user logged in")
	utils.SuccessResponse(c, models.LoginResponse{Token: token, User: user}, "login successful")
}
