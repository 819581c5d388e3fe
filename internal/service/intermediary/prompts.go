package intermediary

import (
	"fmt"

	"github.com/PetarSt98/SmartAllies/internal/model/conversation"
	"github.com/PetarSt98/SmartAllies/internal/model/incident"
)

// Greeting is the deterministic templated opener returned from Connect.
func (p Profile) Greeting(personaName string, ictx *incident.Context) string {
	if p.Kind == KindSamaritan {
		return fmt.Sprintf(
			"This is %s. I've received your emergency alert from location: %s. "+
				"Help is on the way. Can you tell me what's happening right now? "+
				"Who needs assistance and what is their current condition?",
			personaName,
			ictx.Field("location"),
		)
	}
	return fmt.Sprintf(
		"Hello, I'm %s from HR. I'm here to help you with your concern. "+
			"You can speak freely - this conversation is confidential and you remain anonymous. "+
			"How can I assist you today?",
		personaName,
	)
}

// SystemPrompt builds the role framing for the dialogue turn generator. The
// full prior transcript is serialized into the prompt; the latest reporter
// message travels separately as the user turn.
func (p Profile) SystemPrompt(sess *conversation.Session, ictx *incident.Context, transcript string) string {
	if p.Kind == KindSamaritan {
		return fmt.Sprintf(
			"You are %s, an emergency response Samaritan for the company. "+
				"You are responding to an emergency alert from location: %s\n"+
				"Initial emergency report: %s\n\n"+
				"Your role:\n"+
				"- Stay calm and professional\n"+
				"- Assess the situation quickly\n"+
				"- Ask critical questions: Who needs help? What's their condition? Are they conscious? Any injuries?\n"+
				"- Provide immediate guidance if safe to do so\n"+
				"- Keep responses brief and action-oriented (2-3 sentences)\n"+
				"- Reassure that help is arriving\n"+
				"- After gathering key information (name, condition, immediate danger status), conclude by:\n"+
				"  * Confirming emergency services are en route\n"+
				"  * Providing any last safety instructions\n"+
				"  * Documenting the incident\n\n"+
				"IMPORTANT: Only provide YOUR response as the Samaritan. "+
				"Do NOT generate or simulate the reporter's response. "+
				"Do NOT include 'Reporter:' or 'User:' in your output.\n\n"+
				"Previous conversation:\n%s",
			sess.IntermediaryName,
			sess.EmergencyLocation,
			ictx.InitialMessage,
			transcript,
		)
	}
	return fmt.Sprintf(
		"You are %s, a professional and empathetic HR partner. "+
			"You are speaking with an anonymous employee about a workplace incident. "+
			"The initial incident was: %s\n\n"+
			"Your role:\n"+
			"- Listen actively and show empathy\n"+
			"- Ask clarifying questions about what happened\n"+
			"- Gather important details (timeline, people involved, impact)\n"+
			"- Offer support and next steps\n"+
			"- Keep responses concise (2-3 sentences)\n"+
			"- Maintain professional yet warm tone\n"+
			"- After gathering sufficient information (4-6 exchanges), naturally conclude by:\n"+
			"  * Thanking them for sharing\n"+
			"  * Indicating you've documented everything\n"+
			"  * Mentioning next steps (ticket creation, follow-up)\n\n"+
			"IMPORTANT: Only provide YOUR response as the HR partner. "+
			"Do NOT generate or simulate the user's response. "+
			"Do NOT include 'User:' in your output.\n\n"+
			"Previous conversation:\n%s",
		sess.IntermediaryName,
		ictx.InitialMessage,
		transcript,
	)
}

// DetectionPrompt builds the conclusion-detector instruction. The rubric and
// the boolean key differ per kind; the JSON shape and calling convention are
// identical.
func (p Profile) DetectionPrompt(window, lastReporter, latestReply string) string {
	if p.Kind == KindSamaritan {
		return fmt.Sprintf(
			"You are analyzing an emergency response conversation to determine if it can be concluded.\n\n"+
				"Recent conversation:\n%s\n\n"+
				"The reporter's last message: %q\n"+
				"The Samaritan just responded: %q\n\n"+
				"Return true (resolved) if ANY apply:\n"+
				"1. Samaritan confirmed emergency services are arriving and gave final instructions\n"+
				"2. Reporter confirmed situation is stable/under control\n"+
				"3. Key information collected: who needs help, their condition, location confirmed\n"+
				"4. Conversation has 8+ exchanges and Samaritan indicated help is on the way\n"+
				"5. Reporter acknowledged Samaritan's closing/handoff statement\n\n"+
				"Return false if:\n"+
				"- Situation still developing\n"+
				"- Reporter still providing critical updates\n"+
				"- Less than 6 exchanges\n"+
				"- No confirmation of emergency services arrival\n\n"+
				"Respond ONLY with valid JSON:\n"+
				"{\n"+
				"  \"resolved\": true,\n"+
				"  \"reasoning\": \"Emergency services confirmed en route, key info collected\"\n"+
				"}",
			window,
			lastReporter,
			latestReply,
		)
	}
	return fmt.Sprintf(
		"You are analyzing a conversation between an HR partner and an employee to detect if it should end.\n\n"+
			"Recent conversation:\n%s\n\n"+
			"The user's last message was: %q\n"+
			"The HR partner just responded: %q\n\n"+
			"Return true (concluded) if ANY of these apply:\n"+
			"1. User expresses closure: 'thank you', 'thanks', 'bye', 'goodbye', 'that's all', 'that's everything', 'I'm done'\n"+
			"2. User confirms no more to add: 'nothing else', 'no more', 'that's it', 'all good'\n"+
			"3. HR has indicated ticket creation/next steps AND user acknowledged it positively\n"+
			"4. Conversation has 8+ exchanges and HR gave a closing statement\n"+
			"5. User gives very short positive response to HR's closing ('ok', 'yes', 'sure', 'got it')\n\n"+
			"Return false if:\n"+
			"- User is still providing information\n"+
			"- User asked a question\n"+
			"- Conversation just started (< 4 exchanges)\n\n"+
			"Respond ONLY with valid JSON:\n"+
			"{\n"+
			"  \"concluded\": true,\n"+
			"  \"reasoning\": \"User said 'thanks' indicating closure\"\n"+
			"}",
		window,
		lastReporter,
		latestReply,
	)
}

// ClosingMessage is the final intermediary utterance carrying the ticket id.
func (p Profile) ClosingMessage(ticketID, emergencyLocation string) string {
	if p.Kind == KindSamaritan {
		return fmt.Sprintf(
			"Thank you for the information. Emergency services are on their way to %s. "+
				"I've documented everything in incident ticket: %s\n\n"+
				"Please stay with the person if it's safe to do so. If the situation changes, "+
				"call emergency services directly at the numbers provided earlier. Stay safe.",
			emergencyLocation,
			ticketID,
		)
	}
	return fmt.Sprintf(
		"Thank you for sharing this with me. I've documented everything you've told me. "+
			"Your case has been assigned ticket number: %s\n\n"+
			"This ticket is now in SUBMITTED status. Our team will review it and you can track "+
			"its progress. Someone from our team will follow up within 24-48 hours. "+
			"Remember, you can reach out anytime if you need further assistance.",
		ticketID,
	)
}
