package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/RecoveryAshes/iplscorecard/internal/models"
	"github.com/RecoveryAshes/iplscorecard/internal/utils"
)

// Notifier 批量处理完成通知
type Notifier interface {
	NotifyBatch(ctx context.Context, summary *models.BatchSummary) error
}

// webhookExecutor discordgo.Session 的webhook方法
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier 通过Discord webhook发送批量摘要
type DiscordNotifier struct {
	session   webhookExecutor
	webhookID string
	token     string
	username  string
}

// NewDiscordNotifier 从webhook URL创建通知器
// URL格式: https://discord.com/api/webhooks/<id>/<token>
func NewDiscordNotifier(cfg NotifyConfig) (*DiscordNotifier, error) {
	id, token, err := parseWebhookURL(cfg.DiscordWebhookURL)
	if err != nil {
		return nil, err
	}

	// webhook不需要bot token
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("创建Discord会话失败: %w", err)
	}

	return &DiscordNotifier{session: session, webhookID: id, token: token, username: cfg.Username}, nil
}

// parseWebhookURL 解析webhook ID和token
func parseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("webhook URL格式无效: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("webhook URL缺少ID或token")
}

// NotifyBatch 发送批量摘要
func (n *DiscordNotifier) NotifyBatch(ctx context.Context, summary *models.BatchSummary) error {
	params := &discordgo.WebhookParams{
		Username: n.username,
		Embeds:   []*discordgo.MessageEmbed{summaryEmbed(summary)},
	}
	if _, err := n.session.WebhookExecute(n.webhookID, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("发送Discord通知失败: %w", err)
	}
	utils.Debugf("Discord通知已发送: %s", summary.RunID)
	return nil
}

// summaryEmbed 批量摘要消息
func summaryEmbed(summary *models.BatchSummary) *discordgo.MessageEmbed {
	color := 0x2ecc71
	if summary.StopReason == models.StopConsecutiveFailures {
		color = 0xe74c3c
	}

	lastID := summary.NextMatchID - 1
	if lastID < summary.StartMatchID {
		lastID = summary.StartMatchID
	}

	return &discordgo.MessageEmbed{
		Title:       "IPL 计分卡批量抓取",
		Description: fmt.Sprintf("比赛 %d - %d", summary.StartMatchID, lastID),
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "成功", Value: fmt.Sprintf("%d", summary.Processed), Inline: true},
			{Name: "失败", Value: fmt.Sprintf("%d", summary.Failed), Inline: true},
			{Name: "停止原因", Value: string(summary.StopReason), Inline: true},
			{Name: "耗时", Value: fmt.Sprintf("%.1fs", summary.Duration), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: summary.RunID},
	}
}
