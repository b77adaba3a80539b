package editor

import (
	"fmt"

	"sitecms/internal/model"
)

// ImageTarget names an image field of the document.
type ImageTarget int

const (
	HeroImage ImageTarget = iota
	AboutMainImage
	AboutSecondaryImage
	// ProjectImage, BlogImage and TestimonialAvatar address a list item by id.
	ProjectImage
	BlogImage
	TestimonialAvatar
)

// SetImage embeds data as a data URI into the target field. Images over
// model.MaxImageBytes are rejected with model.ErrImageTooLarge and leave the
// document unchanged.
func (s *Session) SetImage(target ImageTarget, id, contentType string, data []byte) error {
	uri, err := model.DataURI(contentType, data)
	if err != nil {
		return err
	}
	return s.edit(func(doc *model.SiteContent) error {
		switch target {
		case HeroImage:
			doc.Hero.Image = uri
		case AboutMainImage:
			doc.About.ImageMain = uri
		case AboutSecondaryImage:
			doc.About.ImageSecondary = uri
		case ProjectImage:
			for i := range doc.Projects {
				if doc.Projects[i].ID == id {
					doc.Projects[i].Image = uri
					return nil
				}
			}
			return ErrItemNotFound
		case BlogImage:
			for i := range doc.Blogs {
				if doc.Blogs[i].ID == id {
					doc.Blogs[i].Image = uri
					return nil
				}
			}
			return ErrItemNotFound
		case TestimonialAvatar:
			for i := range doc.Testimonials {
				if doc.Testimonials[i].ID == id {
					doc.Testimonials[i].Avatar = uri
					return nil
				}
			}
			return ErrItemNotFound
		default:
			return fmt.Errorf("editor: unknown image target %d", target)
		}
		return nil
	})
}
