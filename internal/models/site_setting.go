// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// DefaultSiteName is used when no site name has been configured.
const DefaultSiteName = "Männerkreis Niederbayern"

// SocialPlatform identifies the kind of a social link.
type SocialPlatform string

const (
	PlatformEmail     SocialPlatform = "email"
	PlatformPhone     SocialPlatform = "phone"
	PlatformInstagram SocialPlatform = "instagram"
	PlatformFacebook  SocialPlatform = "facebook"
	PlatformWhatsApp  SocialPlatform = "whatsapp"
	PlatformWebsite   SocialPlatform = "website"
)

// SocialLink is a contact or social media link shown in the site footer.
type SocialLink struct {
	Platform SocialPlatform `json:"platform"`
	URL      string         `json:"url"`
	Label    *string        `json:"label,omitempty"`
}

// SiteSettings is the singleton record of site-wide configuration.
type SiteSettings struct {
	SiteName        string       `json:"siteName"`
	SiteDescription *string      `json:"siteDescription,omitempty"`
	ContactEmail    *string      `json:"contactEmail,omitempty"`
	ContactPhone    *string      `json:"contactPhone,omitempty"`
	FooterText      *string      `json:"footerText,omitempty"`
	SocialLinks     []SocialLink `json:"socialLinks"`
	HomepageID      *int64       `json:"homepage,omitempty"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// Link returns the first social link for the given platform.
func (s *SiteSettings) Link(p SocialPlatform) (SocialLink, bool) {
	for _, l := range s.SocialLinks {
		if l.Platform == p {
			return l, true
		}
	}
	return SocialLink{}, false
}
