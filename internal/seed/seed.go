package seed

import (
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kosa-recruit/panel-manager/backend/internal/config"
	"github.com/kosa-recruit/panel-manager/backend/internal/domain"
	"github.com/kosa-recruit/panel-manager/backend/internal/repository"
	"github.com/kosa-recruit/panel-manager/backend/internal/utils"
)

var departmentNames = []string{"技术研发部", "产品设计部"}

// SeedOrganization 插入一家公司、若干部门（含人事部门）和每个部门的随机成员，
// 并在第一个部门中创建初始管理员账号
func SeedOrganization(cfg *config.Config, r *repository.Repository, usersPerDepartment int) {
	company := &domain.Company{Name: "科飒信息科技有限公司"}
	if err := r.InsertCompany(company); err != nil {
		slog.Error("插入公司失败", "error", err)
		return
	}

	// 人事部门的名称必须包含配置的关键字，否则人事编组无法定位到它
	names := append(slices.Clone(departmentNames), cfg.Panel.HRDepartmentKeyword+"部")

	departments := []*domain.Department{}
	for _, name := range names {
		department := &domain.Department{
			CompanyID: company.ID,
			Name:      name,
		}
		if err := r.InsertDepartment(department); err != nil {
			slog.Error("插入部门失败", "name", name, "error", err)
			return
		}
		departments = append(departments, department)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("无法生成初始管理员密码哈希", "error", err)
		return
	}
	admin := &domain.CompanyUser{
		CompanyID:    company.ID,
		DepartmentID: departments[0].ID,
		Username:     cfg.InitialAdmin.Username,
		PasswordHash: string(passwordHash),
		FullName:     cfg.InitialAdmin.FullName,
		Email:        cfg.InitialAdmin.Email,
		Rank:         domain.RankSeniorManager,
		IsActive:     true,
	}
	if err := r.InsertCompanyUser(admin); err != nil {
		slog.Error("插入初始管理员失败", "error", err)
		return
	}

	cnt := 0
	for _, department := range departments {
		for i := 0; i < usersPerDepartment; i++ {
			user, err := utils.GenerateRandomCompanyUser(cfg.Seed.User.Password, cfg.Email.UserDomain, company.ID, department.ID)
			if err != nil {
				slog.Error("无法生成随机用户", "error", err)
				continue
			}
			if err := r.InsertCompanyUser(user); err != nil {
				slog.Error("插入用户失败", "error", err)
				continue
			}
			cnt++
		}
	}

	slog.Info("插入公司组织成功", "companyID", company.ID, "departments", len(departments), "users", cnt)
}

// SeedRecruitment 在公司下插入一条招聘公告、一场一周后的面试日程，
// 以及 applicantCount 个已通过书面审核的投递
func SeedRecruitment(cfg *config.Config, r *repository.Repository, companyID int64, applicantCount int) {
	users, err := r.ListCompanyUsersByCompany(companyID)
	if err != nil {
		slog.Error("获取公司成员失败", "error", err)
		return
	}
	if len(users) == 0 {
		slog.Error("公司还没有成员，请先插入公司组织", "companyID", companyID)
		return
	}

	// 用一位经理作为公告发布者
	var creator *domain.CompanyUser
	for _, user := range users {
		if user.Rank == domain.RankManager || user.Rank == domain.RankSeniorManager {
			creator = user
			break
		}
	}
	if creator == nil {
		creator = users[0]
	}

	jobPost := &domain.JobPost{
		CompanyID:    companyID,
		DepartmentID: creator.DepartmentID,
		CreatorID:    creator.ID,
		Title:        "后端开发工程师（社招）",
	}
	if err := r.InsertJobPost(jobPost); err != nil {
		slog.Error("插入招聘公告失败", "error", err)
		return
	}

	schedule := &domain.Schedule{
		JobPostID:   jobPost.ID,
		Title:       "第一轮技术面试",
		Location:    "总部 3 层会议室",
		ScheduledAt: time.Now().AddDate(0, 0, 7).Truncate(time.Hour),
	}
	if err := r.InsertSchedule(schedule); err != nil {
		slog.Error("插入面试日程失败", "error", err)
		return
	}

	cnt := 0
	for i := 0; i < applicantCount; i++ {
		applicant, err := utils.GenerateRandomCompanyUser(cfg.Seed.User.Password, cfg.Email.UserDomain, companyID, creator.DepartmentID)
		if err != nil {
			slog.Error("无法生成应聘者", "error", err)
			continue
		}
		applicant.IsActive = false // 应聘者不是在职成员，不能被选为面试官
		applicant.Rank = domain.RankAssociate
		if err := r.InsertCompanyUser(applicant); err != nil {
			slog.Error("插入应聘者失败", "error", err)
			continue
		}

		application := &domain.Application{
			JobPostID: jobPost.ID,
			UserID:    applicant.ID,
			Stage:     domain.StageDocumentPassed,
		}
		if err := r.InsertApplication(application); err != nil {
			slog.Error("插入投递失败", "error", err)
			continue
		}
		cnt++
	}

	slog.Info("插入招聘数据成功", "jobPostID", jobPost.ID, "scheduleID", schedule.ID, "applications", cnt)
}

// SeedEvaluations 为公司里职级符合面试官要求的成员插入随机历史评价，
// 让画像重算和均衡推荐有数据可用
func SeedEvaluations(cfg *config.Config, r *repository.Repository, companyID int64, perEvaluator int) {
	users, err := r.ListCompanyUsersByCompany(companyID)
	if err != nil {
		slog.Error("获取公司成员失败", "error", err)
		return
	}

	itemTypes := []string{"技术能力", "人格特质"}
	cnt := 0
	for _, user := range users {
		if !user.IsActive || !slices.Contains(cfg.Panel.ValidRanks, string(user.Rank)) {
			continue
		}

		for i := 0; i < perEvaluator; i++ {
			evaluation := &domain.Evaluation{
				InterviewID: int64(rand.Intn(100000) + 1),
				EvaluatorID: user.ID,
				TotalScore:  utils.GenerateRandomScore(40, 95),
				Summary:     utils.GenerateRandomEvaluationSummary(),
			}
			for _, itemType := range itemTypes {
				score := utils.GenerateRandomScore(40, 95)
				evaluation.Items = append(evaluation.Items, domain.EvaluationItem{
					ItemType: itemType,
					Score:    score,
					Grade:    utils.GradeFromScore(score),
				})
			}
			if err := r.InsertEvaluation(evaluation); err != nil {
				slog.Error("插入评价失败", "evaluatorID", user.ID, "error", err)
				continue
			}
			cnt++
		}
	}

	slog.Info("插入历史评价成功", "count", cnt)
}
