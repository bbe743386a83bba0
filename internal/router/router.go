package router

import (
	"github.com/s20467/Forum-Backend/internal/handlers"
	"github.com/s20467/Forum-Backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint. The authorization filter is installed
// engine-wide; route groups only add the RequireAuth/RequireAdmin guards.
func RegisterRoutes(r *gin.Engine) {
	r.Use(middleware.Authorize())

	authHandler := handlers.NewAuthHandler()
	questionHandler := handlers.NewQuestionHandler()
	answerHandler := handlers.NewAnswerHandler()
	userHandler := handlers.NewUserHandler()

	// Open entry points
	r.POST("/login", authHandler.Login)
	r.GET("/refresh-token", authHandler.RefreshToken)

	api := r.Group("/api")
	{
		// Users
		api.POST("/users/create", userHandler.Register)
		api.GET("/users", userHandler.List)
		api.GET("/users/:username", userHandler.Get)
		api.GET("/users/:username/check-username-availability", userHandler.CheckUsernameAvailability)
		api.PATCH("/users/:username", userHandler.Update)
		api.DELETE("/users/:username", userHandler.Delete)
		api.POST("/users/:username/change-password", userHandler.ChangePassword)

		// Questions: open reads
		api.GET("/questions", questionHandler.List)
		api.GET("/questions/not-closed", questionHandler.ListNotClosed)
		api.GET("/questions/without-best-answer", questionHandler.ListWithoutBestAnswer)
		api.GET("/questions/get-by-author/:username", questionHandler.ListByAuthor)
		api.GET("/questions/answered-by/:username", questionHandler.ListAnsweredBy)
		api.GET("/questions/:questionId", questionHandler.Get)
		api.GET("/questions/:questionId/answers", answerHandler.ListByQuestion)

		// Answers: open reads
		api.GET("/answers", answerHandler.List)
		api.GET("/answers/:answerId", answerHandler.Get)
		api.GET("/answers/get-by-author/:username", answerHandler.ListByAuthor)

		// Authenticated writes
		authed := api.Group("/")
		authed.Use(middleware.RequireAuth())
		{
			authed.POST("/questions", questionHandler.Create)
			authed.PATCH("/questions/:questionId", questionHandler.Update)
			authed.DELETE("/questions/:questionId", questionHandler.Delete)
			authed.POST("/questions/:questionId/close", questionHandler.Close)
			authed.POST("/questions/:questionId/open", questionHandler.Open)
			authed.GET("/questions/:questionId/upvote", questionHandler.UpVote)
			authed.GET("/questions/:questionId/downvote", questionHandler.DownVote)
			authed.GET("/questions/:questionId/unupvote", questionHandler.UnUpVote)
			authed.GET("/questions/:questionId/undownvote", questionHandler.UnDownVote)
			authed.GET("/questions/:questionId/set-best-answer/:answerId", questionHandler.SetBestAnswer)
			authed.GET("/questions/:questionId/unset-best-answer", questionHandler.UnsetBestAnswer)
			authed.POST("/questions/:questionId/give-answer", answerHandler.Create)

			authed.PATCH("/answers/:answerId", answerHandler.Update)
			authed.DELETE("/answers/:answerId", answerHandler.Delete)
			authed.GET("/answers/:answerId/upvote", answerHandler.UpVote)
			authed.GET("/answers/:answerId/downvote", answerHandler.DownVote)
			authed.GET("/answers/:answerId/unupvote", answerHandler.UnUpVote)
			authed.GET("/answers/:answerId/undownvote", answerHandler.UnDownVote)
		}

		// Admin-only surface
		admin := api.Group("/")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/questions/admin", questionHandler.CreateAdmin)
			admin.PATCH("/questions/:questionId/admin", questionHandler.UpdateAdmin)
			admin.POST("/questions/:questionId/give-answer/admin", answerHandler.CreateAdmin)
			admin.PATCH("/answers/:answerId/admin", answerHandler.UpdateAdmin)
		}
	}
}
