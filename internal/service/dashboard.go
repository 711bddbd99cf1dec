package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"MyPetCare/internal/model"
	pkgerrors "MyPetCare/pkg/errors"
)

var (
	dashboardService *DashboardService
	dashboardOnce    sync.Once
)

func Dashboard() *DashboardService {
	dashboardOnce.Do(func() {
		dashboardService = &DashboardService{}
	})

	return dashboardService
}

// DefaultDashboardTab 未指定 tab 时选中首页
const DefaultDashboardTab = "home"

// 首页目前是固定的演示内容，引导阶段收集的数据不会保留到这里
var (
	dashboardStats = []model.DashboardStat{
		{Key: "health", Label: "Saúde", Value: "Ótima"},
		{Key: "activity", Label: "Atividade", Value: "85%"},
		{Key: "mood", Label: "Humor", Value: "Feliz"},
		{Key: "level", Label: "Nível", Value: "12"},
	}

	dashboardReminders = []model.DashboardReminder{
		{Kind: "walk", Title: "Passeio", Time: "19:30", Description: "Caminhada noturna"},
		{Kind: "medication", Title: "Medicamento", Time: "14:00", Description: "Dar remédio para pulgas"},
		{Kind: "feeding", Title: "Alimentação", Time: "18:00", Description: "Jantar do Max"},
	}

	dashboardActivities = []model.DashboardActivity{
		{Time: "09:00", Activity: "Café da manhã", Emoji: "🍽️"},
		{Time: "10:30", Activity: "Passeio matinal", Emoji: "🦮"},
		{Time: "12:00", Activity: "Brincadeira", Emoji: "🎾"},
		{Time: "14:00", Activity: "Soneca", Emoji: "😴"},
	}

	dashboardTabs = []model.DashboardTab{
		{ID: "home", Label: "Início"},
		{ID: "activity", Label: "Atividade"},
		{ID: "routine", Label: "Rotina"},
		{ID: "health", Label: "Saúde"},
		{ID: "profile", Label: "Perfil"},
	}
)

type DashboardService struct{}

// GetDashboard 返回首页数据，tab 为空时选中 home，未知 tab 返回 DashboardTabInvalid
func (s *DashboardService) GetDashboard(ctx context.Context, tab string) (*model.Dashboard, error) {
	if tab == "" {
		tab = DefaultDashboardTab
	}

	tabs := make([]model.DashboardTab, len(dashboardTabs))
	found := false
	for i, t := range dashboardTabs {
		t.Active = t.ID == tab
		found = found || t.Active
		tabs[i] = t
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", pkgerrors.DashboardTabInvalid, tab)
	}

	// 提醒按时间排序
	reminders := append([]model.DashboardReminder(nil), dashboardReminders...)
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].Time < reminders[j].Time
	})

	return &model.Dashboard{
		Greeting:     "Olá, Maria! 👋",
		Subtitle:     "Como está o Max hoje?",
		UnreadAlerts: len(reminders),
		Pet: model.PetCard{
			Name:    "Max",
			Emoji:   "🐕",
			Summary: "Golden Retriever • 3 anos",
		},
		Stats:       append([]model.DashboardStat(nil), dashboardStats...),
		Reminders:   reminders,
		Activities:  append([]model.DashboardActivity(nil), dashboardActivities...),
		Tabs:        tabs,
		SelectedTab: tab,
	}, nil
}
