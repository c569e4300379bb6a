package chat

import (
	"fmt"

	"fundis/models"
)

const menuBody = `1️⃣ Book a service
2️⃣ My bookings
3️⃣ Become a provider
4️⃣ Help

Reply with a number to continue.`

const mainMenuPrompt = "👋 Welcome to Fundis! How can we help you today?\n\n" + menuBody

const serviceTypePrompt = `🔧 What service do you need?

Examples: Plumbing, Electrical, Cleaning, Carpentry, Painting, Gardening

Type the service name, or 0 to cancel.`

const descriptionPrompt = `📝 Briefly describe the problem so the fundi knows what to expect.`

const locationPrompt = `📍 Where are you located? (estate, street or landmark)`

const datePrompt = `📅 When do you need the service?

You can say "today", "tomorrow", a weekday like "Saturday", or a date like 25/12/2026.`

const helpPrompt = `ℹ️ Fundis help

• Reply 1 to book a service
• Reply 2 to see your bookings
• Reply 3 to register as a provider
• Reply 0 anytime to cancel the current step

Support: support@fundis.co.ke or call 0700 000 000.`

const namePrompt = `👋 Welcome to Fundis! Before we start, what is your name?`

const businessNamePrompt = `🏢 Great! What is your business name?`

const servicesPrompt = `🔧 Which services do you offer? Separate them with commas.

Example: Plumbing, Electrical`

const hourlyRatePrompt = `💰 What is your hourly rate in KES? (numbers only)`

const cancelledPrompt = `✅ Cancelled. Reply "hi" anytime to see the menu.`

const deactivatedPrompt = `Your account has been deactivated. Contact support@fundis.co.ke if you believe this is a mistake.`

const noProviderPrompt = `😔 Sorry, no verified provider currently offers that service. Please try another service or check back later.`

const noBookingsPrompt = `You have no bookings yet. Reply 1 to book a service!`

func bookingConfirmationPrompt(bk *models.Booking, businessName string, dateRecognized bool) string {
	msg := fmt.Sprintf(`✅ Booking request sent!

Service: %s
Provider: %s
Location: %s
Date: %s
Estimated cost: KES %.0f
Booking ID: %s

We'll notify you as soon as the provider responds.`,
		bk.ServiceType, businessName, bk.Location,
		bk.ScheduledDate.Format("Mon, 02 Jan 2006"), bk.EstimatedCost, bk.ID)
	if !dateRecognized {
		msg += "\n\n(We couldn't read your date, so we scheduled it for tomorrow. Reply 0 and book again if that's wrong.)"
	}
	return msg
}

func providerRequestPrompt(bk *models.Booking, clientName string) string {
	return fmt.Sprintf(`🔔 New booking request!

Service: %s
Client: %s
Description: %s
Location: %s
Date: %s
Estimated pay: KES %.0f

Reply ACCEPT %s to take the job
Reply DECLINE %s to pass.`,
		bk.ServiceType, clientName, bk.Description, bk.Location,
		bk.ScheduledDate.Format("Mon, 02 Jan 2006"), bk.EstimatedCost, bk.ID, bk.ID)
}

func bookingListLine(bk *models.Booking) string {
	return fmt.Sprintf("• %s | %s | %s | KES %.0f | ID: %s",
		bk.ServiceType, bk.Status, bk.ScheduledDate.Format("02 Jan"), bk.EstimatedCost, bk.ID)
}

func providerWelcomePrompt(businessName string) string {
	return fmt.Sprintf(`🎉 %s is registered!

Your profile is pending verification. Once verified, you'll start receiving booking requests for your services.`, businessName)
}

func paymentPushedPrompt(amount float64) string {
	return fmt.Sprintf(`📲 Check your phone! An M-Pesa prompt for KES %.0f has been sent. Enter your PIN to complete payment.`, amount)
}

func greetingPrompt(name string) string {
	if name == "" {
		return mainMenuPrompt
	}
	return fmt.Sprintf("👋 Welcome back, %s!\n\n", name) + menuBody
}
