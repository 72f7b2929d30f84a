package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"

	"github.com/kosa-recruit/panel-manager/backend/internal/config"
	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
	"github.com/kosa-recruit/panel-manager/backend/internal/panel"
	"github.com/kosa-recruit/panel-manager/backend/internal/profile"
	"github.com/kosa-recruit/panel-manager/backend/internal/repository"
)

// 可以创建和取消编组的职级
var managerRanks = []domain.Rank{domain.RankManager, domain.RankSeniorManager}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository *repository.Repository
	translator ut.Translator
	panels     *panel.Engine
	profiles   *profile.Engine

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, panels *panel.Engine, profiles *profile.Engine) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		panels:     panels,
		profiles:   profiles,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.With(h.myInfo).Get("/my-info", h.GetMyInfo)

		r.Route("/notifications", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyNotifications)
			r.Post("/{id}/read", h.MarkNotificationRead)
		})

		r.Route("/panel", func(r chi.Router) {
			r.Route("/assignments", func(r chi.Router) {
				r.With(h.RequiredRank(managerRanks)).Post("/", h.CreateAssignments)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/members", h.GetAssignmentMembers)
					r.With(h.RequiredRank(managerRanks)).Post("/cancel", h.CancelAssignment)
				})
			})

			r.Route("/requests", func(r chi.Router) {
				r.Use(h.myInfo)
				r.Get("/my", h.GetMyPendingRequests)
				r.Get("/my/history", h.GetMyRequestHistory)
				r.Post("/{id}/respond", h.RespondToRequest)
			})

			r.Get("/job-posts/{id}/members", h.GetJobPostMembers)
			r.Get("/schedules/{id}/slots", h.GetScheduleSlots)
		})

		r.With(h.myInfo).Post("/evaluations", h.CreateEvaluation)

		r.Route("/profiles/{evaluatorID}", func(r chi.Router) {
			r.Get("/", h.GetProfile)
			r.Get("/history", h.GetProfileHistory)
			r.With(h.RequiredRank(managerRanks)).Post("/initialize", h.InitializeProfile)
			r.With(h.RequiredRank(managerRanks)).Post("/recalculate", h.RecalculateProfile)
		})
	})
}
