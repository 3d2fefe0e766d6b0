package config

// DefaultTemplates returns the built-in message set. Email templates carry
// the subject on the first "Subject:" line; lines starting with the ✓ glyph
// become bullet items when the body is converted to HTML.
func DefaultTemplates() Templates {
	return Templates{
		Email: map[string]string{
			"initial": `Subject: Transform Your Fitness Journey at {business_name} - Free Consultation Available

Hi {name},

I hope this email finds you well! My name is {trainer_name}, and I'm a certified personal trainer at {business_name}.

I came across your information and noticed you might be interested in taking your fitness to the next level. I specialize in helping busy professionals like yourself achieve their health and fitness goals through personalized training programs.

Here's what I can offer you:
✓ Customized workout plans tailored to your lifestyle
✓ Nutrition guidance that actually works
✓ Access to premium facilities and equipment
✓ Flexible scheduling that fits your busy life
✓ Proven results with my 12-week transformation program

I'd love to offer you a complimentary 30-minute consultation where we can discuss your fitness goals and create a plan that works specifically for you. This consultation is completely free with no strings attached.

Would you be interested in scheduling a quick call this week? I have availability on weekday evenings and weekends.

Looking forward to helping you achieve your fitness goals!

Best regards,
{trainer_name}
{business_name}
{phone_number}
{website_url}

P.S. If you're not interested in personal training services, simply reply with "UNSUBSCRIBE" and I'll remove you from my list immediately.`,

			"follow_up": `Subject: Quick Follow-up - Your Free Fitness Consultation at {business_name}

Hi {name},

I wanted to follow up on my previous email about your complimentary fitness consultation at {business_name}. I understand you're probably busy, so I'll keep this brief.

As someone who's helped over 100 people transform their health and fitness, I know that taking the first step can feel overwhelming. That's exactly why I offer free consultations - to remove any barriers and help you get started on the right path.

This week only, I'm also including a free fitness assessment (normally $75) with your consultation at our state-of-the-art facility.

If you're ready to invest in your health, just reply to this email or text me at {phone_number}. If you'd prefer not to hear from me again, simply reply with "UNSUBSCRIBE."

Your health is your wealth - let's make it a priority together.

Best,
{trainer_name}
{business_name}`,
		},
		SMS: map[string]string{
			"initial": `Hi {name}! This is {trainer_name}, personal trainer at {business_name}.

I'd love to offer you a FREE 30-min fitness consultation + assessment (worth $75) at our facility. No strings attached - just want to help you reach your goals!

Interested? Text YES for more info or STOP to opt out.

- {trainer_name}`,

			"follow_up": `Hi {name}, quick follow-up from {trainer_name} at {business_name}.

Still have your FREE consultation + $75 fitness assessment available. Many clients see results in just 2 weeks!

Ready to start your transformation? Text YES or STOP to opt out.

- {trainer_name}`,
		},
	}
}
