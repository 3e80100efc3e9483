package comentario

import "time"

// CriarComentarioRequest é o corpo de POST /relatorios/{id}/comentarios.
type CriarComentarioRequest struct {
	Texto string `json:"texto" validate:"required,max=2000"`
}

type AuthorDTO struct {
	ID   uint   `json:"id"`
	Nome string `json:"nome,omitempty"`
}

type CommentDTO struct {
	ID          uint      `json:"id"`
	RelatorioID uint      `json:"relatorio_id"`
	Texto       string    `json:"texto"`
	CreatedAt   time.Time `json:"created_at"`
	Author      AuthorDTO `json:"author"`
}

func toDTO(c Comentario) CommentDTO {
	out := CommentDTO{
		ID:          c.ID,
		RelatorioID: c.RelatorioID,
		Texto:       c.Texto,
		CreatedAt:   c.CreatedAt,
		Author:      AuthorDTO{ID: c.AutorID},
	}
	if c.Autor != nil {
		out.Author.Nome = c.Autor.Nome
	}
	return out
}

// ToDTOs é usado também pelo detalhe do relatório.
func ToDTOs(list []Comentario) []CommentDTO {
	out := make([]CommentDTO, 0, len(list))
	for _, c := range list {
		out = append(out, toDTO(c))
	}
	return out
}
