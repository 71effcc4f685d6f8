package user

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	repo UserRepository
}

func NewUserController(repo UserRepository) *UserController {
	return &UserController{repo: repo}
}

// GetMe godoc
// @Summary      Current user's profile
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=UserResponse}
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /users/me [get]
func (uc *UserController) GetMe(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	u, err := uc.repo.GetByID(userID)
	if err != nil {
		responses.FromError(c, apperr.FromDB(err, "User not found"))
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile retrieved", ToResponse(u))
}

// UpdateMe godoc
// @Summary      Update nickname, Free Fire id or avatar
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      UpdateProfileRequest  true  "Profile fields"
// @Success      200   {object}  responses.SuccessResponse{data=UserResponse}
// @Failure      400   {object}  responses.ErrorResponse
// @Router       /users/me [put]
func (uc *UserController) UpdateMe(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	fields := map[string]interface{}{}
	if req.Nickname != nil {
		fields["nickname"] = strings.TrimSpace(*req.Nickname)
	}
	if req.FreeFireID != nil {
		fields["free_fire_id"] = strings.TrimSpace(*req.FreeFireID)
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	if len(fields) > 0 {
		if err := uc.repo.UpdateFields(userID, fields); err != nil {
			responses.FromError(c, apperr.FromDB(err, "User not found"))
			return
		}
	}

	u, err := uc.repo.GetByID(userID)
	if err != nil {
		responses.FromError(c, apperr.FromDB(err, "User not found"))
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile updated", ToResponse(u))
}

// GetProfile godoc
// @Summary      Public profile of a player
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  responses.SuccessResponse{data=PublicProfile}
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /users/{id} [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	u, err := uc.repo.GetByID(id)
	if err != nil {
		responses.FromError(c, apperr.FromDB(err, "User not found"))
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", ToPublic(u))
}

// Search godoc
// @Summary      Search players by username, nickname or Free Fire id
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Search text (min 2 chars)"
// @Success      200  {object}  responses.SuccessResponse{data=[]PublicProfile}
// @Router       /users/search [get]
func (uc *UserController) Search(c *gin.Context) {
	userID, _ := common.GetUserIDFromContext(c)
	q := strings.TrimSpace(c.Query("q"))
	if len(q) < 2 {
		responses.BadRequest(c, "Search query must be at least 2 characters")
		return
	}
	users, err := uc.repo.Search(q, userID, 20)
	if err != nil {
		responses.FromError(c, apperr.Internal(err, "search users"))
		return
	}
	out := make([]PublicProfile, 0, len(users))
	for i := range users {
		out = append(out, ToPublic(&users[i]))
	}
	responses.SendSuccess(c, http.StatusOK, "", out)
}

// Leaderboard godoc
// @Summary      Top players by rank points
// @Tags         Users
// @Produce      json
// @Param        limit  query     int  false  "Max entries (default 50, max 100)"
// @Success      200    {object}  responses.SuccessResponse{data=[]PublicProfile}
// @Router       /users/leaderboard [get]
func (uc *UserController) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 100 {
		limit = 50
	}
	users, err := uc.repo.Leaderboard(limit)
	if err != nil {
		responses.FromError(c, apperr.Internal(err, "leaderboard"))
		return
	}
	out := make([]PublicProfile, 0, len(users))
	for i := range users {
		out = append(out, ToPublic(&users[i]))
	}
	responses.SendSuccess(c, http.StatusOK, "", out)
}
