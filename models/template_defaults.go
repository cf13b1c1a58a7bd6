package models

import "time"

// Ids of the built-in dispatcher templates
const (
	TemplateIDAcknowledgment = "ack-general"
	TemplateIDResolved       = "resolved-general"
	TemplateIDFollowUp       = "followup-general"
)

// Ids of the built-in library templates
const (
	TemplateIDCustomerQuery   = "library-customer-query"
	TemplateIDQueryFollowUp   = "library-follow-up"
	TemplateIDQueryResolution = "library-resolution"
	TemplateIDFeedback        = "library-feedback"
)

// DefaultTemplates returns the set materialized the first time templates are loaded:
// one acknowledgment per query category, the three dispatcher templates, then the
// library templates agents start from.
func DefaultTemplates(now time.Time) []Template {
	templates := []Template{
		{
			ID:       "1",
			Name:     "General Inquiry Acknowledgment",
			Category: QueryCategoryGeneral,
			Subject:  "Thank you for contacting us - We've received your inquiry",
			Content: `Dear {{customerName}},

Thank you for reaching out to us. We have received your inquiry regarding "{{subject}}" and our team will review it shortly.

Your query ID is: {{queryId}}

We typically respond to general inquiries within 24-48 hours. If your matter is urgent, please don't hesitate to call our support line.

Best regards,
Customer Support Team`,
		},
		{
			ID:       "2",
			Name:     "Technical Support Acknowledgment",
			Category: QueryCategoryTechnical,
			Subject:  "Technical Support - Your request has been received",
			Content: `Dear {{customerName}},

We've received your technical support request about "{{subject}}".

Query ID: {{queryId}}

Our technical team has been notified and will investigate your issue. We aim to provide initial feedback within 4-6 hours for technical matters.

In the meantime, you might find our knowledge base helpful: [Knowledge Base Link]

Technical Support Team`,
		},
		{
			ID:       "3",
			Name:     "Billing Inquiry Acknowledgment",
			Category: QueryCategoryBilling,
			Subject:  "Billing Inquiry Received - We're here to help",
			Content: `Dear {{customerName}},

Thank you for contacting us regarding your billing inquiry: "{{subject}}".

Query ID: {{queryId}}

Our billing department will review your account and respond within 24 hours. For immediate billing concerns, please have your account number ready when calling our billing hotline.

Billing Support Team`,
		},
		{
			ID:       "4",
			Name:     "Product Inquiry Acknowledgment",
			Category: QueryCategoryProduct,
			Subject:  "Product Inquiry - Thank you for your interest",
			Content: `Dear {{customerName}},

Thank you for your product inquiry about "{{subject}}".

Query ID: {{queryId}}

Our product specialists will provide you with detailed information within 24 hours. We're excited to help you find the perfect solution for your needs.

Product Team`,
		},
		{
			ID:       "5",
			Name:     "Complaint Acknowledgment",
			Category: QueryCategoryComplaint,
			Subject:  "Your Feedback is Important - Complaint Acknowledged",
			Content: `Dear {{customerName}},

We sincerely apologize for any inconvenience you've experienced. Your complaint regarding "{{subject}}" has been received and is being treated with high priority.

Query ID: {{queryId}}

A senior customer service representative will personally review your case and contact you within 2 hours. Your feedback helps us improve our service.

Senior Customer Service Team`,
		},
	}

	for i := range templates {
		templates[i].Type = TemplateTypeAcknowledgment
		templates[i].Variables = []string{"customerName", "subject", "queryId"}
	}

	templates = append(templates, DispatchTemplates()...)
	templates = append(templates, LibraryTemplates()...)

	for i := range templates {
		templates[i].IsActive = true
		templates[i].CreatedAt = now
		templates[i].UpdatedAt = now
	}
	return templates
}

// DispatchTemplates returns the built-in acknowledgment, resolution and follow-up
// templates. They use the single-brace placeholder syntax.
func DispatchTemplates() []Template {
	return []Template{
		{
			ID:      TemplateIDAcknowledgment,
			Name:    "General Acknowledgment",
			Type:    TemplateTypeAcknowledgment,
			Subject: "We received your inquiry - Ticket #{ticketId}",
			Content: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Thank you for contacting us!</h2>
  <p>Dear {customerName},</p>
  <p>We have received your inquiry and assigned it ticket number <strong>#{ticketId}</strong>.</p>
  <div style="background-color: #f3f4f6; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Your Query:</h3>
    <p><strong>Subject:</strong> {subject}</p>
    <p><strong>Message:</strong> {message}</p>
    <p><strong>Priority:</strong> {priority}</p>
  </div>
  <p>Our team will review your request and respond within {responseTime}. If this is urgent, please call us at {supportPhone}.</p>
  <p>Best regards,<br>Customer Support Team</p>
</div>`,
			TextContent: "Dear {customerName},\n\nWe have received your inquiry and assigned it ticket number #{ticketId}.\n\nYour Query:\nSubject: {subject}\nMessage: {message}\nPriority: {priority}\n\nOur team will review your request and respond within {responseTime}.\n\nBest regards,\nCustomer Support Team",
			Variables:   []string{"customerName", "ticketId", "subject", "message", "priority", "responseTime", "supportPhone"},
			IsActive:    true,
		},
		{
			ID:      TemplateIDResolved,
			Name:    "Query Resolved",
			Type:    TemplateTypeResolved,
			Subject: "Your inquiry has been resolved - Ticket #{ticketId}",
			Content: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #16a34a;">Your query has been resolved!</h2>
  <p>Dear {customerName},</p>
  <p>We're pleased to inform you that your inquiry (Ticket #{ticketId}) has been resolved.</p>
  <div style="background-color: #f0fdf4; padding: 15px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #16a34a;">
    <h3 style="margin-top: 0; color: #16a34a;">Resolution:</h3>
    <p>{resolution}</p>
  </div>
  <p>If you have any additional questions or concerns, please don't hesitate to contact us.</p>
  <p>Thank you for choosing our service!</p>
  <p>Best regards,<br>Customer Support Team</p>
</div>`,
			TextContent: "Dear {customerName},\n\nWe're pleased to inform you that your inquiry (Ticket #{ticketId}) has been resolved.\n\nResolution:\n{resolution}\n\nIf you have any additional questions, please contact us.\n\nThank you for choosing our service!\n\nBest regards,\nCustomer Support Team",
			Variables:   []string{"customerName", "ticketId", "resolution"},
			IsActive:    true,
		},
		{
			ID:      TemplateIDFollowUp,
			Name:    "Follow-up Check",
			Type:    TemplateTypeFollowUp,
			Subject: "Following up on your recent inquiry - Ticket #{ticketId}",
			Content: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #7c3aed;">How was your experience?</h2>
  <p>Dear {customerName},</p>
  <p>We wanted to follow up on your recent inquiry (Ticket #{ticketId}) to ensure everything was resolved to your satisfaction.</p>
  <div style="background-color: #faf5ff; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p>Your feedback is important to us. Please take a moment to rate your experience:</p>
    <div style="text-align: center; margin: 20px 0;">
      <a href="{feedbackUrl}?rating=5">Excellent</a>
      <a href="{feedbackUrl}?rating=4">Good</a>
      <a href="{feedbackUrl}?rating=3">Average</a>
      <a href="{feedbackUrl}?rating=2">Poor</a>
    </div>
  </div>
  <p>If you need any additional assistance, please don't hesitate to reach out.</p>
  <p>Best regards,<br>Customer Support Team</p>
</div>`,
			TextContent: "Dear {customerName},\n\nWe wanted to follow up on your recent inquiry (Ticket #{ticketId}) to ensure everything was resolved to your satisfaction.\n\nPlease visit {feedbackUrl} to rate your experience.\n\nIf you need additional assistance, please reach out.\n\nBest regards,\nCustomer Support Team",
			Variables:   []string{"customerName", "ticketId", "feedbackUrl"},
			IsActive:    true,
		},
	}
}

// LibraryTemplates returns the uncategorized templates for manual replies, one per
// template type except welcome. They use the double-brace placeholder syntax.
func LibraryTemplates() []Template {
	return []Template{
		{
			ID:      TemplateIDCustomerQuery,
			Name:    "Customer Query Acknowledgment",
			Type:    TemplateTypeAcknowledgment,
			Subject: "We received your inquiry - Ticket #{{ticketId}}",
			Content: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Thank you for contacting us!</h2>
  <p>Dear {{customerName}},</p>
  <p>We have received your inquiry and want to assure you that we're here to help. Your ticket has been assigned the reference number <strong>#{{ticketId}}</strong>.</p>
  <div style="background-color: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #374151;">Your Query Details:</h3>
    <p><strong>Subject:</strong> {{querySubject}}</p>
    <p><strong>Category:</strong> {{queryCategory}}</p>
    <p><strong>Priority:</strong> {{priority}}</p>
    <p><strong>Submitted:</strong> {{submissionDate}}</p>
  </div>
  <p><strong>What happens next?</strong></p>
  <ul>
    <li>Our support team will review your inquiry within {{responseTime}}</li>
    <li>You'll receive updates via email at {{customerEmail}}</li>
    <li>You can track your ticket status using reference #{{ticketId}}</li>
  </ul>
  <p>If you have any additional information or urgent concerns, please reply to this email with your ticket number.</p>
  <p>Best regards,<br>{{supportAgentName}}<br>Customer Support Team<br>{{companyName}}</p>
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 30px 0;">
  <p style="font-size: 12px; color: #6b7280;">This is an automated response. Please do not reply to this email unless you need to add information to your existing ticket.</p>
</div>`,
			Variables: []string{"customerName", "ticketId", "querySubject", "queryCategory", "priority", "submissionDate", "responseTime", "customerEmail", "supportAgentName", "companyName"},
		},
		{
			ID:      TemplateIDQueryFollowUp,
			Name:    "Query Follow-up",
			Type:    TemplateTypeFollowUp,
			Subject: "Update on your inquiry - Ticket #{{ticketId}}",
			Content: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Update on Your Support Request</h2>
  <p>Dear {{customerName}},</p>
  <p>We wanted to provide you with an update regarding your support ticket <strong>#{{ticketId}}</strong>.</p>
  <div style="background-color: #f0f9ff; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #2563eb;">
    <h3 style="margin-top: 0; color: #1e40af;">Current Status: {{currentStatus}}</h3>
    <p>{{updateMessage}}</p>
  </div>
  <p><strong>Next Steps:</strong></p>
  <p>{{nextSteps}}</p>
  <p><strong>Estimated Resolution:</strong> {{estimatedResolution}}</p>
  <p>If you have any questions or need to provide additional information, please reply to this email with your ticket number #{{ticketId}}.</p>
  <p>Thank you for your patience.</p>
  <p>Best regards,<br>{{supportAgentName}}<br>Customer Support Team<br>{{companyName}}</p>
</div>`,
			Variables: []string{"customerName", "ticketId", "currentStatus", "updateMessage", "nextSteps", "estimatedResolution", "supportAgentName", "companyName"},
		},
		{
			ID:      TemplateIDQueryResolution,
			Name:    "Query Resolution",
			Type:    TemplateTypeResolved,
			Subject: "Your inquiry has been resolved - Ticket #{{ticketId}}",
			Content: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #059669;">Your Issue Has Been Resolved!</h2>
  <p>Dear {{customerName}},</p>
  <p>Great news! We have successfully resolved your support ticket <strong>#{{ticketId}}</strong>.</p>
  <div style="background-color: #f0fdf4; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #059669;">
    <h3 style="margin-top: 0; color: #047857;">Resolution Summary</h3>
    <p><strong>Issue:</strong> {{originalIssue}}</p>
    <p><strong>Solution:</strong> {{resolutionDetails}}</p>
    <p><strong>Resolved by:</strong> {{supportAgentName}}</p>
    <p><strong>Resolution date:</strong> {{resolutionDate}}</p>
  </div>
  <p><strong>Was this helpful?</strong></p>
  <p>We'd love to hear about your experience. Please take a moment to rate our support:</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{feedbackUrl}}" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Rate Our Support</a>
  </div>
  <p>If you experience any further issues related to this ticket, please reply to this email within the next 7 days and we'll reopen your case.</p>
  <p>Thank you for choosing {{companyName}}!</p>
  <p>Best regards,<br>{{supportAgentName}}<br>Customer Support Team<br>{{companyName}}</p>
</div>`,
			Variables: []string{"customerName", "ticketId", "originalIssue", "resolutionDetails", "supportAgentName", "resolutionDate", "feedbackUrl", "companyName"},
		},
		{
			ID:      TemplateIDFeedback,
			Name:    "Feedback Request",
			Type:    TemplateTypeFeedback,
			Subject: "How was our support? - Ticket #{{ticketId}}",
			Content: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #7c3aed;">We Value Your Feedback</h2>
  <p>Dear {{customerName}},</p>
  <p>We hope your recent support experience with ticket <strong>#{{ticketId}}</strong> met your expectations.</p>
  <p>Your feedback helps us improve our service and better assist customers like you in the future.</p>
  <div style="background-color: #faf5ff; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #6b21a8;">Quick Survey</h3>
    <p>Please take 2 minutes to share your experience:</p>
    <div style="text-align: center; margin: 20px 0;">
      <a href="{{surveyUrl}}" style="background-color: #7c3aed; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Take Survey</a>
    </div>
  </div>
  <p><strong>What we'd like to know:</strong></p>
  <ul>
    <li>How satisfied were you with our response time?</li>
    <li>Did we resolve your issue completely?</li>
    <li>How would you rate our support agent's helpfulness?</li>
    <li>Any suggestions for improvement?</li>
  </ul>
  <p>As a thank you for your time, you'll be entered into our monthly drawing for a {{incentive}}!</p>
  <p>Thank you for being a valued customer.</p>
  <p>Best regards,<br>Customer Experience Team<br>{{companyName}}</p>
</div>`,
			Variables: []string{"customerName", "ticketId", "surveyUrl", "incentive", "companyName"},
		},
	}
}

// DefaultDispatchTemplate returns the built-in template for a notification type,
// falling back to the acknowledgment template for unknown types.
func DefaultDispatchTemplate(templateType string) Template {
	defaults := DispatchTemplates()
	for _, t := range defaults {
		if t.Type == NormalizeTemplateType(templateType) {
			return t
		}
	}
	return defaults[0]
}
