package stub

import "github.com/hitoshi/projectmatch/internal/model"

// SeedDemo は手元での動作確認用のユーザーとプロジェクトを投入する。
// 教員 teacher@example.com / 学生 student@example.com（パスワードはいずれもpassword）。
func (s *Server) SeedDemo() {
	teacher := s.AddUser(model.User{
		Email:     "teacher@example.com",
		FirstName: "Hanako",
		LastName:  "Yamada",
		Role:      model.RoleTeacher,
	}, "password")
	student := s.AddUser(model.User{
		Email:     "student@example.com",
		FirstName: "Taro",
		LastName:  "Suzuki",
		Role:      model.RoleStudent,
	}, "password")

	assignmentID := int64(1)
	s.AddProject(model.Project{
		Title:            "Alpha",
		ShortDescription: "推薦アルゴリズムの比較実験",
		Description:      "<p>協調フィルタリングと内容ベースの推薦を比較する。</p>",
		Status:           model.StatusPublished,
		TeamSize:         2,
		AssignmentID:     &assignmentID,
		ProductOwner:     &teacher,
		Members:          []model.User{student},
		CourseName:       "Software Engineering",
		AssignmentName:   "Term Project",
	})
	s.AddProject(model.Project{
		Title:            "Beta",
		ShortDescription: "時系列データの異常検知",
		Description:      "<p>センサーデータからの異常検知パイプラインを構築する。</p>",
		Status:           model.StatusSubmitted,
		TeamSize:         4,
		AssignmentID:     &assignmentID,
		CreatedBy:        &student,
		CourseName:       "Software Engineering",
		AssignmentName:   "Term Project",
	})
	s.AddProject(model.Project{
		Title:            "Gamma",
		ShortDescription: "公開データセットの可視化基盤",
		Description:      "<p>研究室横断で使える可視化ダッシュボード。</p>",
		Status:           model.StatusApproved,
		TeamSize:         3,
		AssignmentID:     &assignmentID,
		ProductOwner:     &teacher,
	})
	s.AddProject(model.Project{
		GID:          "global-1",
		Title:        "Delta",
		Description:  "<p>外部研究者が持ち込むグローバルプロジェクト。</p>",
		Status:       model.StatusPublished,
		TeamSize:     5,
		ProductOwner: &teacher,
	})
}
