package script

// SalesGraph is the production call script used by the dashboard. The
// prompts follow the three-beat structure the sales team trained on
// (opener, pitch, closing) with branches for the common pushbacks.
func SalesGraph() *Graph {
	return MustGraph([]Node{
		{
			ID:   StartNodeID,
			Text: "Hello {name}, good morning. I'm calling from JMK Bank — I noticed you recently checked our loan simulator. Do you have a moment?",
			Options: []Option{
				{Label: "Yes, go ahead", Next: "pitch"},
				{Label: "Busy right now", Next: "reschedule"},
				{Label: "Who is this?", Next: "introduce"},
			},
		},
		{
			ID:   "introduce",
			Text: "Of course — I'm with the JMK sales team. We prepared a personal offer based on your simulation, {name}. May I walk you through it quickly?",
			Options: []Option{
				{Label: "Alright", Next: "pitch"},
				{Label: "Not interested", Next: "decline"},
			},
		},
		{
			ID:   "pitch",
			Text: "This month we have a special reduced interest rate, and with your profile the approval process is fast. Would that be interesting for you?",
			Options: []Option{
				{Label: "Sounds interesting", Next: "closing"},
				{Label: "Needs time to think", Next: "objection"},
				{Label: "Not interested", Next: "decline"},
			},
		},
		{
			ID:   "objection",
			Text: "I understand, {name}. Just so you know, the rate is only locked in until the end of the month — after that it goes back to the regular pricing. Shall I reserve it for you without any commitment?",
			Options: []Option{
				{Label: "Okay, reserve it", Next: "closing"},
				{Label: "Still unsure", Next: "reschedule"},
			},
		},
		{
			ID:   "closing",
			Text: "Great. If you agree, I can start the paperwork right away — it only takes a few minutes. Shall we proceed?",
			Options: []Option{
				{Label: "Deal", Next: "wrap_deal"},
				{Label: "Call me back first", Next: "reschedule"},
			},
		},
		{
			ID:   "wrap_deal",
			Text: "Excellent, {name}! I'll send the confirmation shortly. Thank you for your trust, and welcome aboard.",
		},
		{
			ID:   "reschedule",
			Text: "No problem at all. When would be a good time for me to call you back, {name}? I'll make a note and reach out then.",
		},
		{
			ID:   "decline",
			Text: "Understood — thank you for your time, {name}. If anything changes, we're always happy to help. Have a great day.",
		},
	})
}
