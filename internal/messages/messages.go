package messages

import (
	"fmt"
	"strings"

	"uid-intake-bot/internal/config"
	"uid-intake-bot/internal/models"
)

// Catalog renders every text the bot sends to users
type Catalog struct {
	registrationLink string
	vipChannelLink   string
	supportContact   string
}

// NewCatalog creates a catalog bound to the configured links
func NewCatalog(cfg config.FlowConfig) *Catalog {
	return &Catalog{
		registrationLink: cfg.RegistrationLink,
		vipChannelLink:   cfg.VIPChannelLink,
		supportContact:   cfg.SupportContact,
	}
}

// Welcome is sent on /start, as a video caption when a video is configured
func (c *Catalog) Welcome(requireScreenshot bool) string {
	var b strings.Builder
	b.WriteString("👋 Hello Trader!\n\n")
	if requireScreenshot {
		b.WriteString("Register, send your UID and a deposit screenshot here and you'll be added to the VIP channel!\n\n")
	} else {
		b.WriteString("Just Register and Send UID here and You'll be added in VIP channel!\n\n")
	}
	b.WriteString("📋 Instructions:\n")
	if c.registrationLink != "" {
		fmt.Fprintf(&b, "1. Register on the trading platform: %s\n", c.registrationLink)
	} else {
		b.WriteString("1. Register on the trading platform\n")
	}
	b.WriteString("2. Drop your UID (7 digits) below 👇")
	return b.String()
}

// DepositInstructions is sent once a valid UID was stored
func (c *Catalog) DepositInstructions(uid string) string {
	return fmt.Sprintf("✅ UID %s saved!\n\n"+
		"💰 Now make a deposit and send a screenshot of it here.\n\n"+
		"📸 Send the screenshot as a photo or an image file.", uid)
}

func (c *Catalog) InvalidUID() string {
	return "❌ Invalid UID format!\n\nPlease enter a valid 7-digit UID."
}

func (c *Catalog) UIDFirst() string {
	return "🔢 Please send your UID (7 digits) first."
}

func (c *Catalog) ScreenshotReminder() string {
	return "📸 Please send a screenshot of your deposit to complete the verification."
}

func (c *Catalog) ImageRequired() string {
	return "❌ This file is not an image.\n\nPlease send the deposit screenshot as a photo or an image file."
}

func (c *Catalog) ScreenshotNotRequired() string {
	return "📸 Screenshot is not required. Just send your UID (7 digits) using /start command."
}

func (c *Catalog) ProcessingScreenshot() string {
	return "⏳ Processing your screenshot..."
}

func (c *Catalog) ProcessingUID() string {
	return "⏳ Processing your UID..."
}

// Submitted confirms a stored submission
func (c *Catalog) Submitted(requireScreenshot bool) string {
	subject := "UID"
	if requireScreenshot {
		subject = "UID and screenshot"
	}
	return fmt.Sprintf("✅ Thank you! Your %s has been submitted successfully.\n\n"+
		"⏳ We'll review and You will receive the VIP Channel Join Link.\n\n"+
		"Please wait for our response. 🙏", subject)
}

// SchemaProblem is shown when the submissions table lacks a column
func (c *Catalog) SchemaProblem(column string) string {
	return fmt.Sprintf("❌ Database configuration error. Please contact admin.\n\nError: Missing %s column in database.", column)
}

func (c *Catalog) SubmissionFailed() string {
	return "❌ Sorry, there was an error processing your submission. Please try again.\n\n" +
		"If the problem persists, please contact support."
}

func (c *Catalog) StartHint() string {
	return "👋 Hello! Please use /start to begin the verification process."
}

func (c *Catalog) NoUserInfo() string {
	return "Unable to retrieve user information."
}

// Verification is sent when a submission is approved
func (c *Catalog) Verification() string {
	var b strings.Builder
	b.WriteString("🎉 Congratulations! You're Verified!\n\n")
	b.WriteString("Welcome to the VIP Community! Join our exclusive trading channel and start making money with us.\n\n")
	if c.vipChannelLink != "" {
		fmt.Fprintf(&b, "🔗 Join VIP Channel: %s\n\n", c.vipChannelLink)
	}
	b.WriteString("Happy Trading! 🚀")
	return b.String()
}

// Rejection is sent when a submission is rejected
func (c *Catalog) Rejection() string {
	var b strings.Builder
	b.WriteString("❌ Your submission has been rejected.\n\n")
	b.WriteString("Please make the required deposit and resubmit your screenshot for verification.\n\n")
	b.WriteString("If you have any questions or need assistance, please contact our team")
	if c.supportContact != "" {
		fmt.Fprintf(&b, ":\n👥 Contact Team: %s", c.supportContact)
	} else {
		b.WriteString(".")
	}
	b.WriteString("\n\nWe're here to help! 💪")
	return b.String()
}

// StatusMessage returns the template for a status, or false when the status has none
func (c *Catalog) StatusMessage(status models.SubmissionStatus) (string, bool) {
	switch status {
	case models.StatusApproved:
		return c.Verification(), true
	case models.StatusRejected:
		return c.Rejection(), true
	}
	return "", false
}

// Statistics renders the /stats reply for bot admins
func (c *Catalog) Statistics(stats models.MessageStatistics, activeFlows int) string {
	return fmt.Sprintf("📊 Bot statistics\n\n"+
		"📤 Sent: %d\n"+
		"📥 Received: %d\n"+
		"👥 Users messaged: %d\n"+
		"💬 Total messages: %d\n"+
		"🔄 Active conversations: %d",
		stats.TotalSent, stats.TotalReceived, stats.UniqueUsersMessaged, stats.TotalMessages, activeFlows)
}
