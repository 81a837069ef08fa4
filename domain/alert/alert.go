package alert

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"html"
	"maestro-dashboard/utils/email"
	"sync"
	"time"
)

const DefaultCooldown = 30 * time.Minute

const alertEmailHTMLTemplate = `
<h1>AXON 知识库连接失败</h1>
<p>数据表：%s</p>
<p>时间：%s</p>

<h2>错误信息</h2>
<p>%s</p>

<p></p>
<p>仪表盘将继续以空表运行，请检查远端地址与访问权限（RLS）。</p>
`

/*
Setting 描述告警的发送方式。

	Recipients 为空时不发送任何邮件；
	Cooldown 两封告警之间的最小间隔；
*/
type Setting struct {
	Recipients []string
	Cooldown   time.Duration
	Table      string
	Sender     email.Sender
	Logger     *logrus.Logger
	Now        func() time.Time
}

// Notifier 在远端不可用时向运维发送邮件，按 Cooldown 限流。
type Notifier struct {
	recipients []string
	table      string
	sender     email.Sender
	logger     *logrus.Logger
	now        func() time.Time

	limiter *rate.Limiter
	wg      sync.WaitGroup
}

func NewNotifier(setting *Setting) *Notifier {
	cooldown := setting.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	notifier := &Notifier{
		recipients: setting.Recipients,
		table:      setting.Table,
		sender:     setting.Sender,
		logger:     setting.Logger,
		now:        setting.Now,
		limiter:    rate.NewLimiter(rate.Every(cooldown), 1),
	}

	if notifier.logger == nil {
		notifier.logger = logrus.New()
	}
	if notifier.now == nil {
		notifier.now = time.Now
	}

	return notifier
}

func (n *Notifier) Enabled() bool {
	return n != nil && len(n.recipients) != 0 && n.sender != nil
}

// Notify 异步发送告警，冷却期内的调用被丢弃。
func (n *Notifier) Notify(err error) {
	if !n.Enabled() || err == nil {
		return
	}

	now := n.now()
	if !n.limiter.AllowN(now, 1) {
		n.logger.Debugf("alert suppressed during cooldown: %s", err.Error())
		return
	}

	content := renderAlertPage(n.table, now, err)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		if sendErr := n.sender.SendHtml(n.recipients, "【MAESTRO】AXON 连接失败", content); sendErr != nil {
			n.logger.WithError(sendErr).Errorf("send alert email error: %s", sendErr.Error())
			return
		}
		n.logger.Infof("alert email sent to %v", n.recipients)
	}()
}

// Wait 等待已发出的告警发送完成。
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}

func renderAlertPage(table string, at time.Time, err error) string {
	return fmt.Sprintf(alertEmailHTMLTemplate,
		html.EscapeString(table),
		at.Format(time.RFC3339),
		html.EscapeString(err.Error()))
}
