package model

// DashboardStat 首页顶部的统计卡片
type DashboardStat struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// DashboardReminder 今日提醒
type DashboardReminder struct {
	Kind        string `json:"kind"` // medication, feeding, walk
	Title       string `json:"title"`
	Time        string `json:"time"` // HH:MM
	Description string `json:"description"`
}

// DashboardActivity 今日活动时间线中的一项
type DashboardActivity struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Emoji    string `json:"emoji"`
}

// DashboardTab 底部导航
type DashboardTab struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// PetCard 宠物信息卡片
type PetCard struct {
	Name    string `json:"name"`
	Emoji   string `json:"emoji"`
	Summary string `json:"summary"`
}

// Dashboard 首页视图数据
type Dashboard struct {
	Greeting     string              `json:"greeting"`
	Subtitle     string              `json:"subtitle"`
	UnreadAlerts int                 `json:"unread_alerts"`
	Pet          PetCard             `json:"pet"`
	Stats        []DashboardStat     `json:"stats"`
	Reminders    []DashboardReminder `json:"reminders"`
	Activities   []DashboardActivity `json:"activities"`
	Tabs         []DashboardTab      `json:"tabs"`
	SelectedTab  string              `json:"selected_tab"`
}
